// Package costmodel implements the pure scoring functions the
// scheduler weighs candidates with: effective CPU strength, predicted
// execution time, and predicted transfer time (including
// RemoteDataHandle locality), combined into the total time a candidate
// executor is expected to need for a task. Structured the way
// pkg/decision/decision_engine.go breaks a decision into named,
// orderable steps, and borrowing the "distance between where data sits
// and where compute runs" framing from pkg/models/data_gravity.go —
// here expressed as a plain min(bandwidth) formula rather than an
// abstract gravity matrix.
package costmodel

import "github.com/cyberforage/aprofile-scavenger/pkg/models"

// LocalEffectiveCPU is the effective CPU strength of the local host:
// localCpuStrength / (localInFlight + 1).
func LocalEffectiveCPU(localCPUStrength float64, localInFlight int) float64 {
	return localCPUStrength / float64(localInFlight+1)
}

// PeerEffectiveCPU is the effective CPU strength of a remote peer:
// peer.cpuStrength / (peer.activeTasks/peer.cpuCores + 1), using
// integer division for the contention ratio, divisor floored at 1.
func PeerEffectiveCPU(peer models.Peer) float64 {
	contention := int(peer.ActiveTasks) / int(peer.EffectiveCores())
	return float64(peer.CPUStrength) / float64(contention+1)
}

// ExecutionTime is expectedComplexity / effectiveCPU.
func ExecutionTime(expectedComplexity, effectiveCPU float64) float64 {
	if effectiveCPU == 0 {
		return 0
	}
	return expectedComplexity / effectiveCPU
}

// RemoteLatency is the constant per-call latency added to every remote
// transfer-time estimate.
const RemoteLatency = 0.1

// DataHandleCost returns the time attributed to transferring a single
// RemoteDataHandle when scoring a candidate executor: zero if the
// handle's owner already is the candidate, else
// handle.size / min(candidateNet, ownerNet).
//
// ownerNet is the network class of the handle's owning peer; callers
// resolve that from PeerContext before calling in.
func DataHandleCost(handle models.RemoteDataHandle, candidateName string, candidateNet, ownerNet models.NetClass) float64 {
	if handle.ServerName == candidateName {
		return 0
	}
	bw := minNet(candidateNet, ownerNet)
	if bw == 0 {
		return 0
	}
	return float64(handle.Size) / float64(bw)
}

// RemoteTransferTime is the predicted transfer time for scoring a
// remote peer: (inputBytes+outputBytes)/min(localNet, peerNet) + the
// constant latency, plus the DataHandleCost of every handle not
// already owned by this peer.
func RemoteTransferTime(inputBytes, outputBytes int64, localNet, peerNet models.NetClass, handleCosts []float64) float64 {
	bw := minNet(localNet, peerNet)
	var t float64
	if bw > 0 {
		t = float64(inputBytes+outputBytes) / float64(bw)
	}
	t += RemoteLatency
	for _, c := range handleCosts {
		t += c
	}
	return t
}

// LocalTransferTime is the predicted transfer time for scoring the
// local host: input/output are already present (zero cost), so this is
// purely the sum of DataHandleCost for every handle, scored against
// localNet rather than a peer's net class.
func LocalTransferTime(handleCosts []float64) float64 {
	var t float64
	for _, c := range handleCosts {
		t += c
	}
	return t
}

func minNet(a, b models.NetClass) models.NetClass {
	if a < b {
		return a
	}
	return b
}
