// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Event is one streaming progress update: the statistics for a completed
// stage, or the terminal event carrying the final result.
type Event struct {
	Stage string
	Stats StageStats

	// Final marks the terminal event; Result is set only on it.
	Final  bool
	Result *Result
}

// Stream yields pipeline progress incrementally. Consumers call Next until it
// reports done, then check Err. Cancellation is observed between yields: a
// cancelled consumer stops receiving events and Err returns the context error.
type Stream struct {
	events chan Event
	err    error
	done   chan struct{}
}

// RunStream executes the pipeline like Run but yields an Event after every
// stage. The pipeline goroutine blocks on the consumer, so an abandoned
// stream must cancel ctx to release it.
func (p *Pipeline) RunStream(ctx context.Context, candidates []*types.Candidate, qc *types.QueryContext) *Stream {
	s := &Stream{
		events: make(chan Event),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.events)
		defer close(s.done)

		res, err := p.run(ctx, candidates, qc, func(stats StageStats) {
			select {
			case s.events <- Event{Stage: stats.Stage, Stats: stats}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			s.err = err
			return
		}

		select {
		case s.events <- Event{Final: true, Result: res}:
		case <-ctx.Done():
			s.err = ctx.Err()
		}
	}()

	return s
}

// Next returns the next event. ok is false once the stream is exhausted.
func (s *Stream) Next() (ev Event, ok bool) {
	ev, ok = <-s.events
	return ev, ok
}

// Err reports the run error, valid after Next has returned ok == false.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}
