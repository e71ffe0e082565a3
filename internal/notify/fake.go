package notify

import (
	"errors"
	"sync"
)

// SentMail is one recorded notification.
type SentMail struct {
	Kind    string // "pending", "approved", "rejected"
	To      string
	Reasons []string
}

// Recorder is an in-memory Notifier for tests and for running without
// a broker. Optionally fails every send via FailAll.
type Recorder struct {
	mu      sync.Mutex
	Sent    []SentMail
	FailAll bool
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(m SentMail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return errors.New("notifier unavailable")
	}
	r.Sent = append(r.Sent, m)
	return nil
}

func (r *Recorder) ProfilePending(email string) error {
	return r.record(SentMail{Kind: "pending", To: email})
}

func (r *Recorder) ProfileApproved(email string) error {
	return r.record(SentMail{Kind: "approved", To: email})
}

func (r *Recorder) ProfileRejected(email string, reasons []string) error {
	return r.record(SentMail{Kind: "rejected", To: email, Reasons: reasons})
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []SentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentMail, len(r.Sent))
	copy(out, r.Sent)
	return out
}
