package services

import "log"

// ActivityRecorder decouples audit writes from the request path. Records go
// through a bounded channel to a single worker; delivery is at-most-once.
// A full buffer drops the record, a failed write is logged and swallowed.
type ActivityRecorder struct {
	logs *ActivityLogService
	ch   chan ActivityRecord
	done chan struct{}
}

func NewActivityRecorder(logs *ActivityLogService, bufferSize int) *ActivityRecorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &ActivityRecorder{
		logs: logs,
		ch:   make(chan ActivityRecord, bufferSize),
		done: make(chan struct{}),
	}
}

func (r *ActivityRecorder) Start() {
	go func() {
		defer close(r.done)
		for rec := range r.ch {
			if err := r.logs.Record(rec); err != nil {
				log.Printf("activity log write failed: %v", err)
			}
		}
	}()
}

// Enqueue never blocks. Returns false when the buffer is full and the
// record was dropped.
func (r *ActivityRecorder) Enqueue(rec ActivityRecord) bool {
	select {
	case r.ch <- rec:
		return true
	default:
		return false
	}
}

// Stop closes the intake and waits for the worker to finish what it has
// already accepted.
func (r *ActivityRecorder) Stop() {
	close(r.ch)
	<-r.done
}
