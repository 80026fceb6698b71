package peercontext

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// Announcement is the fixed-layout payload for a peer announcement,
// decoded big-endian as (float32, uint32, uint32, uint32) =
// (cpuStrength, cpuCores, activeTasks, netClass).
type Announcement struct {
	Name        string
	Address     models.Address
	CPUStrength float32
	CPUCores    uint32
	ActiveTasks uint32
	NetClass    models.NetClass
}

// DecodeAnnouncement parses the wire payload for a peer announcement.
// name and address travel out-of-band, delivered by the discovery
// source alongside the payload.
func DecodeAnnouncement(name string, addr models.Address, payload []byte) (Announcement, error) {
	if len(payload) != 16 {
		return Announcement{}, fmt.Errorf("peercontext: announcement payload must be 16 bytes, got %d", len(payload))
	}

	var raw struct {
		CPUStrength float32
		CPUCores    uint32
		ActiveTasks uint32
		NetClass    uint32
	}
	if err := binary.Read(bytes.NewReader(payload), binary.BigEndian, &raw); err != nil {
		return Announcement{}, fmt.Errorf("peercontext: decoding announcement: %w", err)
	}

	return Announcement{
		Name:        name,
		Address:     addr,
		CPUStrength: raw.CPUStrength,
		CPUCores:    raw.CPUCores,
		ActiveTasks: raw.ActiveTasks,
		NetClass:    models.NetClass(raw.NetClass),
	}, nil
}

// ToPeer converts a decoded announcement into a Peer record stamped
// with the current time, ready for Context.Upsert.
func (a Announcement) ToPeer(now time.Time) models.Peer {
	return models.Peer{
		Name:        a.Name,
		Address:     a.Address,
		CPUStrength: a.CPUStrength,
		CPUCores:    a.CPUCores,
		ActiveTasks: a.ActiveTasks,
		NetClass:    a.NetClass,
		LastSeen:    now,
	}
}

// Source is the discovery-source collaborator: whatever
// presence/announcement transport is in use pushes peer records into
// a Context by calling Subscribe's callback. This core only consumes
// the interface; no presence protocol is implemented here.
type Source interface {
	// Subscribe registers fn to be called on every received
	// announcement for the given service name.
	Subscribe(service string, fn func(name string, addr models.Address, payload []byte)) error
	// Close releases any resources held by the source.
	Close() error
}

// Listen subscribes to service announcements on source and feeds every
// decoded announcement into ctx. Malformed payloads are dropped;
// decoding errors never reach the caller since discovery is a
// best-effort side channel.
func Listen(source Source, service string, ctx *Context) error {
	return source.Subscribe(service, func(name string, addr models.Address, payload []byte) {
		ann, err := DecodeAnnouncement(name, addr, payload)
		if err != nil {
			return
		}
		ctx.Upsert(ann.ToPeer(time.Now()))
	})
}
