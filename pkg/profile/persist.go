package profile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// File format: a simple framed layout, chosen over an opaque
// host-language serializer so the on-disk format stays self-describing.
//
//	magic   [4]byte  "APR1"
//	version uint16
//	count   uint32        // number of keys
//	for each key:
//	  keyLen  uint32
//	  key     []byte
//	  mode    byte         // 1 = flat (1-D), 2 = bucketed (2-D)
//	  if flat:
//	    n       uint32
//	    samples [n]float64
//	  if bucketed:
//	    bucketCount uint32
//	    for each bucket:
//	      anchor  float64
//	      n       uint32
//	      samples [n]float64
var (
	magic         = [4]byte{'A', 'P', 'R', '1'}
	formatVersion = uint16(1)

	modeFlat     = byte(1)
	modeBucketed = byte(2)
)

// ErrStoreCorrupt reports that a profile file could not be parsed.
// Callers recover from this by starting empty — Load never returns
// this error, it silently discards the file and returns an empty store.
var ErrStoreCorrupt = errors.New("profile: store file is corrupt")

// Load reads a store back from filename. On any parse error, or if the
// file does not exist, it returns a fresh empty store bound to
// filename: a profile file on disk is either well-formed or treated as
// absent, anything else is discarded silently.
func Load(filename string) *Store {
	s := New()
	s.filename = filename

	f, err := os.Open(filename)
	if err != nil {
		return s
	}
	defer f.Close()

	items, err := decode(bufio.NewReader(f))
	if err != nil {
		return s
	}
	s.items = items
	return s
}

// Save atomically persists the store to its backing file: written to a
// temp file in the same directory, then renamed into place.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filename == "" {
		return errors.New("profile: store has no backing file")
	}

	tmp, err := os.CreateTemp(dirOf(s.filename), ".profile-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	if err := encode(w, s.items); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.filename)
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func encode(w io.Writer, items map[string]*Item) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(items))); err != nil {
		return err
	}
	for key, item := range items {
		if err := writeBytes(w, []byte(key)); err != nil {
			return err
		}
		if item.IsBucketed() {
			if err := encodeBucketed(w, item); err != nil {
				return err
			}
		} else {
			if err := encodeFlat(w, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func encodeFlat(w io.Writer, item *Item) error {
	if _, err := w.Write([]byte{modeFlat}); err != nil {
		return err
	}
	var samples []float64
	if f := item.Flat(); f != nil {
		samples = f.Samples()
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(samples))); err != nil {
		return err
	}
	for _, v := range samples {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func encodeBucketed(w io.Writer, item *Item) error {
	if _, err := w.Write([]byte{modeBucketed}); err != nil {
		return err
	}
	buckets := item.Buckets()
	if err := binary.Write(w, binary.BigEndian, uint32(len(buckets))); err != nil {
		return err
	}
	for _, b := range buckets {
		if err := binary.Write(w, binary.BigEndian, b.Key); err != nil {
			return err
		}
		samples := b.Samples()
		if err := binary.Write(w, binary.BigEndian, uint32(len(samples))); err != nil {
			return err
		}
		for _, v := range samples {
			if err := binary.Write(w, binary.BigEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func decode(r io.Reader) (map[string]*Item, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, ErrStoreCorrupt
	}
	if gotMagic != magic {
		return nil, ErrStoreCorrupt
	}

	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, ErrStoreCorrupt
	}
	if version != formatVersion {
		return nil, ErrStoreCorrupt
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, ErrStoreCorrupt
	}

	items := make(map[string]*Item, count)
	for i := uint32(0); i < count; i++ {
		key, err := readBytes(r)
		if err != nil {
			return nil, ErrStoreCorrupt
		}
		var modeBuf [1]byte
		if _, err := io.ReadFull(r, modeBuf[:]); err != nil {
			return nil, ErrStoreCorrupt
		}
		mode := modeBuf[0]

		item := newItem()
		switch mode {
		case modeFlat:
			if err := decodeFlat(r, item); err != nil {
				return nil, ErrStoreCorrupt
			}
		case modeBucketed:
			if err := decodeBucketed(r, item); err != nil {
				return nil, ErrStoreCorrupt
			}
		default:
			return nil, ErrStoreCorrupt
		}
		items[string(key)] = item
	}
	return items, nil
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeFlat(r io.Reader, item *Item) error {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return err
	}
	item.mode = mode1D
	item.flat = newBucket(0)
	for i := uint32(0); i < n; i++ {
		var v float64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return err
		}
		item.flat.Register(v)
	}
	return nil
}

func decodeBucketed(r io.Reader, item *Item) error {
	var bucketCount uint32
	if err := binary.Read(r, binary.BigEndian, &bucketCount); err != nil {
		return err
	}
	item.mode = mode2D
	for i := uint32(0); i < bucketCount; i++ {
		var anchor float64
		if err := binary.Read(r, binary.BigEndian, &anchor); err != nil {
			return err
		}
		b := newBucket(anchor)
		var n uint32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return err
		}
		for j := uint32(0); j < n; j++ {
			var v float64
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return err
			}
			b.Register(v)
		}
		item.buckets = append(item.buckets, b)
	}
	return nil
}
