package algo

import (
	"slices"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

// RoundInfo describes one planning round of the coordinator.
type RoundInfo struct {
	Round     int
	Starts    []core.Cell // effective starts used this round
	Paths     []core.Path
	Conflicts []Conflict
}

// Observer is notified after every completed round. Slices in RoundInfo are
// owned by the coordinator and must be copied if retained.
type Observer interface {
	OnRound(info RoundInfo)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(info RoundInfo)

// OnRound calls f(info).
func (f ObserverFunc) OnRound(info RoundInfo) { f(info) }

// TraceRecorder keeps a copy of every round it observes.
type TraceRecorder struct {
	Rounds []RoundInfo
}

// OnRound records a deep copy of info.
func (r *TraceRecorder) OnRound(info RoundInfo) {
	cp := RoundInfo{
		Round:     info.Round,
		Starts:    slices.Clone(info.Starts),
		Paths:     make([]core.Path, len(info.Paths)),
		Conflicts: slices.Clone(info.Conflicts),
	}
	for i, p := range info.Paths {
		cp.Paths[i] = slices.Clone(p)
	}
	r.Rounds = append(r.Rounds, cp)
}

// Last returns the most recent round, or false if none was recorded.
func (r *TraceRecorder) Last() (RoundInfo, bool) {
	if len(r.Rounds) == 0 {
		return RoundInfo{}, false
	}
	return r.Rounds[len(r.Rounds)-1], true
}
