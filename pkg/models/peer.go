package models

import "time"

// Address is the RPC address of a peer: host and port.
type Address struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Peer is a discovered surrogate willing to perform tasks on behalf of
// this client. Fields mirror the announcement payload decoded by
// pkg/peercontext plus the bookkeeping fields the scheduler needs.
type Peer struct {
	Name        string    `json:"name"`
	Address     Address   `json:"address"`
	CPUStrength float32   `json:"cpu_strength"`
	CPUCores    uint32    `json:"cpu_cores"`
	ActiveTasks uint32    `json:"active_tasks"`
	NetClass    NetClass  `json:"net_class"`
	LastSeen    time.Time `json:"last_seen"`
}

// Clone returns a value copy of the peer. PeerContext.Snapshot hands
// these out so that readers cannot mutate the canonical record.
func (p Peer) Clone() Peer {
	return p
}

// EffectiveCores returns the peer's core count, floored at 1 so a
// misreported zero never divides by zero in the cost model.
func (p Peer) EffectiveCores() uint32 {
	if p.CPUCores == 0 {
		return 1
	}
	return p.CPUCores
}
