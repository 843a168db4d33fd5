package textmap

import (
	"time"

	"github.com/rs/zerolog"
)

// stopwatch records the duration of consecutive pipeline stages.
type stopwatch struct {
	last   time.Time
	stages []stage
}

type stage struct {
	name string
	d    time.Duration
}

func startStopwatch() *stopwatch {
	return &stopwatch{last: time.Now()}
}

// lap ends the current stage.
func (s *stopwatch) lap(name string) {
	now := time.Now()
	s.stages = append(s.stages, stage{name: name, d: now.Sub(s.last)})
	s.last = now
}

// fields adds one duration field per stage plus the total.
func (s *stopwatch) fields(ev *zerolog.Event) *zerolog.Event {
	var total time.Duration
	for _, st := range s.stages {
		ev = ev.Dur(st.name, st.d)
		total += st.d
	}
	return ev.Dur("dur", total)
}
