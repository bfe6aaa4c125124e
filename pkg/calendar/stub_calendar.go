package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StubSource is an in-memory Source for tests.
type StubSource struct {
	data map[string]Event
	err  error
}

func NewStubSource() *StubSource {
	return &StubSource{data: map[string]Event{}}
}

func (s *StubSource) AddEvent(event Event) Event {
	if event.UID == "" {
		event.UID = uuid.NewString()
	}
	s.data[event.UID] = event
	return event
}

// FailWith makes every subsequent GetEvents call return err.
func (s *StubSource) FailWith(err error) {
	s.err = err
}

func (s *StubSource) GetEvents(_ context.Context, from time.Time, to time.Time) ([]Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	var events []Event
	for _, event := range s.data {
		if event.StartTime.Before(to) && event.EndTime.After(from) {
			events = append(events, event)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return events, nil
}

func (s *StubSource) Cleanup() {
	s.data = map[string]Event{}
	s.err = nil
}
