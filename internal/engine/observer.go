package engine

import (
	"context"
	"log/slog"
)

// Observer receives progress notifications from a run. Calls are synchronous
// and purely informational: nothing an observer does changes the run.
type Observer interface {
	OnAttempt(attempt, maxAttempts int, status Status)
	OnCode(code string, attempt int)
}

// adapts plain functions to Observer; nil fields are skipped
type ObserverFuncs struct {
	Attempt func(attempt, maxAttempts int, status Status)
	Code    func(code string, attempt int)
}

func (f ObserverFuncs) OnAttempt(attempt, maxAttempts int, status Status) {
	if f.Attempt != nil {
		f.Attempt(attempt, maxAttempts, status)
	}
}

func (f ObserverFuncs) OnCode(code string, attempt int) {
	if f.Code != nil {
		f.Code(code, attempt)
	}
}

type EventType string

const (
	EventAttempt EventType = "attempt"
	EventCode    EventType = "code"
	EventResult  EventType = "result"
)

// one progress notification in stream form
type Event struct {
	Type        EventType  `json:"type"`
	Attempt     int        `json:"attempt,omitempty"`
	MaxAttempts int        `json:"max_attempts,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Code        string     `json:"code,omitempty"`
	Result      *RunResult `json:"result,omitempty"`
}

// ChannelObserver forwards notifications as events. Sends block until the
// consumer reads or ctx is done.
type ChannelObserver struct {
	ctx    context.Context
	events chan<- Event
}

func NewChannelObserver(ctx context.Context, events chan<- Event) *ChannelObserver {
	return &ChannelObserver{ctx: ctx, events: events}
}

func (o *ChannelObserver) OnAttempt(attempt, maxAttempts int, status Status) {
	o.send(Event{Type: EventAttempt, Attempt: attempt, MaxAttempts: maxAttempts, Status: status})
}

func (o *ChannelObserver) OnCode(code string, attempt int) {
	o.send(Event{Type: EventCode, Attempt: attempt, Code: code})
}

func (o *ChannelObserver) send(ev Event) {
	select {
	case o.events <- ev:
	case <-o.ctx.Done():
	}
}

// shields the run from a misbehaving observer
type safeObserver struct {
	inner Observer
	log   *slog.Logger
}

func (s safeObserver) OnAttempt(attempt, maxAttempts int, status Status) {
	if s.inner == nil {
		return
	}

	defer s.recover("OnAttempt")
	s.inner.OnAttempt(attempt, maxAttempts, status)
}

func (s safeObserver) OnCode(code string, attempt int) {
	if s.inner == nil {
		return
	}

	defer s.recover("OnCode")
	s.inner.OnCode(code, attempt)
}

func (s safeObserver) recover(hook string) {
	if r := recover(); r != nil {
		s.log.Warn("observer panicked", "hook", hook, "panic", r)
	}
}
