package models

import "sort"

// Candidate is an ephemeral scoring record produced during scheduling:
// a predicted total time to complete the task on some executor. A nil
// Peer denotes the local host.
type Candidate struct {
	TotalTime float64
	Peer      *Peer
}

// IsLocal reports whether this candidate represents the local host.
func (c Candidate) IsLocal() bool {
	return c.Peer == nil
}

// SortCandidates stable-sorts candidates ascending by TotalTime. Ties
// keep their original relative order, so earlier-enumerated candidates
// (local first, then peers in snapshot order) win ties.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalTime < candidates[j].TotalTime
	})
}
