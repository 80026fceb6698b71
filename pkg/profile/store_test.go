package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestStore_OneDimensional_BacklogEviction(t *testing.T) {
	s := New()
	for i := 1; i <= Backlog+1; i++ {
		if err := s.Register("k", float64(i), nil); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	// The first sample (1) should have been evicted; mean is over
	// 2..11.
	got := s.GetComplexity("k", -1, nil)
	var sum float64
	for i := 2; i <= Backlog+1; i++ {
		sum += float64(i)
	}
	want := sum / float64(Backlog)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStore_UnknownKeyReturnsDefault(t *testing.T) {
	s := New()
	if got := s.GetComplexity("missing", 42, nil); got != 42 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestStore_BucketSplit(t *testing.T) {
	s := New()
	for i := 0; i < Backlog; i++ {
		if err := s.Register("k", 1.0, f64(10)); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if err := s.Register("k", 10.0, f64(10000)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	near10 := s.GetComplexity("k", -1, f64(10))
	if near10 != 1.0 {
		t.Errorf("GetComplexity near 10 = %v, want 1.0", near10)
	}
	near10000 := s.GetComplexity("k", -1, f64(10000))
	if near10000 != 10.0 {
		t.Errorf("GetComplexity near 10000 = %v, want 10.0", near10000)
	}
}

func TestStore_BoundaryVariationStaysInBucket(t *testing.T) {
	s := New()
	if err := s.Register("k", 100.0, f64(100)); err != nil {
		t.Fatal(err)
	}
	// complexityVariation == |100-120|/100 == 0.20 exactly;
	// sizeVariation == |100-101|/100 == 0.01 exactly. Neither strictly
	// exceeds its threshold, so this must land in the same bucket.
	if err := s.Register("k", 120.0, f64(101)); err != nil {
		t.Fatal(err)
	}

	item := s.items["k"]
	if len(item.Buckets()) != 1 {
		t.Fatalf("expected a single bucket at the threshold boundary, got %d", len(item.Buckets()))
	}
}

func TestStore_ModeMismatch(t *testing.T) {
	s := New()
	if err := s.Register("k", 1.0, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Register("k", 1.0, f64(5)); err != ErrModeMismatch {
		t.Fatalf("got %v, want ErrModeMismatch", err)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.dat")

	s := New()
	s.filename = path
	for i := 0; i < 5; i++ {
		if err := s.Register("flatkey", float64(i), nil); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := s.Register("bucketkey", float64(i), f64(float64(i*10))); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Load(path)
	if got, want := loaded.GetComplexity("flatkey", -1, nil), s.GetComplexity("flatkey", -1, nil); got != want {
		t.Errorf("flat mean after round-trip = %v, want %v", got, want)
	}
	for i := 0; i < 5; i++ {
		key := f64(float64(i * 10))
		if got, want := loaded.GetComplexity("bucketkey", -1, key), s.GetComplexity("bucketkey", -1, key); got != want {
			t.Errorf("bucket mean at %v after round-trip = %v, want %v", *key, got, want)
		}
	}
}

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "does-not-exist.dat"))
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d keys", s.Len())
	}
}

func TestLoad_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.dat")
	if err := os.WriteFile(path, []byte("not a profile file"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := Load(path)
	if s.Len() != 0 {
		t.Errorf("expected empty store for corrupt file, got %d keys", s.Len())
	}
}
