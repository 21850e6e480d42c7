package playback

import (
	"slices"
	"testing"
	"time"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

func testPaths() []core.Path {
	return []core.Path{
		{core.C(0, 0), core.C(1, 0), core.C(2, 0)},
		{core.C(3, 3), core.C(3, 2), core.C(3, 1), core.C(3, 0), core.C(4, 0)},
	}
}

func TestPositionsAt(t *testing.T) {
	paths := testPaths()

	tests := []struct {
		t    int
		want []core.Cell
	}{
		{0, []core.Cell{core.C(0, 0), core.C(3, 3)}},
		{2, []core.Cell{core.C(2, 0), core.C(3, 1)}},
		{4, []core.Cell{core.C(2, 0), core.C(4, 0)}},
		{9, []core.Cell{core.C(2, 0), core.C(4, 0)}},
	}

	for _, tt := range tests {
		if got := PositionsAt(paths, tt.t); !slices.Equal(got, tt.want) {
			t.Errorf("PositionsAt(%d) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestPositionsAt_EmptyPath(t *testing.T) {
	paths := []core.Path{{core.C(2, 2)}, nil}

	got := PositionsAt(paths, 1)
	want := []core.Cell{core.C(2, 2), {}}
	if !slices.Equal(got, want) {
		t.Errorf("PositionsAt = %v, want %v", got, want)
	}
}

func TestMakespan(t *testing.T) {
	if got := Makespan(testPaths()); got != 4 {
		t.Errorf("Makespan = %d, want 4", got)
	}
	if got := Makespan(nil); got != 0 {
		t.Errorf("Makespan(nil) = %d, want 0", got)
	}
}

func TestPlayer_Stepping(t *testing.T) {
	p := NewPlayer(testPaths(), time.Second)

	p.StepBack()
	if p.Step != 0 {
		t.Errorf("StepBack at 0 moved to %d", p.Step)
	}
	p.StepForward()
	p.StepForward()
	if p.Step != 2 || !slices.Equal(p.Positions(), []core.Cell{core.C(2, 0), core.C(3, 1)}) {
		t.Errorf("step %d positions %v", p.Step, p.Positions())
	}
	p.SetStep(100)
	if !p.Done() || p.Progress() != 1 {
		t.Errorf("SetStep(100): step %d progress %v", p.Step, p.Progress())
	}
	p.Reset()
	if p.Step != 0 || p.Playing {
		t.Error("Reset did not rewind")
	}
}

func TestPlayer_Advance(t *testing.T) {
	clock := time.Unix(0, 0)
	p := NewPlayer(testPaths(), 500*time.Millisecond)
	p.now = func() time.Time { return clock }

	if p.Advance() {
		t.Error("Advance moved while paused")
	}

	p.Play()
	clock = clock.Add(1200 * time.Millisecond)
	if !p.Advance() || p.Step != 2 {
		t.Errorf("after 1.2s step = %d, want 2", p.Step)
	}

	// The leftover 200ms carries into the next frame.
	clock = clock.Add(300 * time.Millisecond)
	p.Advance()
	if p.Step != 3 {
		t.Errorf("after 1.5s step = %d, want 3", p.Step)
	}

	clock = clock.Add(10 * time.Second)
	p.Advance()
	if p.Step != 4 || p.Playing {
		t.Errorf("at end step = %d playing = %v", p.Step, p.Playing)
	}

	// Toggling at the end restarts from the beginning.
	p.TogglePlay()
	if !p.Playing || p.Step != 0 {
		t.Errorf("TogglePlay at end: step %d playing %v", p.Step, p.Playing)
	}
	p.TogglePlay()
	if p.Playing {
		t.Error("second TogglePlay should pause")
	}
}
