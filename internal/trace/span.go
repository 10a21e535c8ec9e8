package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq orders events across every tracer of the process.
func NextSeq() uint64 { return seqCounter.Add(1) }

// goroutineID reads the id from the "goroutine N [" stack header; 0 when
// the header is not in the expected shape.
func goroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header, ok := bytes.CutPrefix(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	num, _, _ := bytes.Cut(header, []byte(" "))
	gid, err := strconv.ParseUint(string(num), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open begin/end pair. A span that was filtered out at Begin
// is inert: End and ID still work and emit nothing.
type Span struct {
	tracer  Tracer
	head    Event
	started time.Time
}

var inert = &Span{tracer: Nop}

// Begin emits a span-begin event. parent is the enclosing span id, 0 for
// a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().admits(scope) {
		return inert
	}
	s := &Span{
		tracer:  t,
		started: time.Now(),
		head: Event{
			Scope:    scope,
			SpanID:   spanCounter.Add(1),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
	}
	ev := s.head
	ev.Time = s.started
	ev.Seq = NextSeq()
	ev.Kind = KindSpanBegin
	t.Emit(&ev)
	return s
}

// End emits the matching span-end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	ev := s.head
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.started)
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.head.SpanID
}

// Point emits an instant event. Failure points pass every level but off.
func Point(t Tracer, scope Scope, name, detail string, failure bool, extra map[string]string) {
	if t == nil || !t.Enabled() {
		return
	}
	ev := &Event{
		Time:    time.Now(),
		Kind:    KindPoint,
		Scope:   scope,
		GID:     goroutineID(),
		Name:    name,
		Detail:  detail,
		Extra:   extra,
		Failure: failure,
	}
	if t.Level().ShouldEmit(ev) {
		t.Emit(ev)
	}
}
