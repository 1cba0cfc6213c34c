// Package notify shows transient success and error messages to the user.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultDuration is how long a message stays visible on a Board.
const DefaultDuration = 3 * time.Second

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notifier reports the outcome of a user action.
type Notifier interface {
	Notify(text string, kind Kind)
}

// Message is what a Board currently shows. The zero value is a blank board.
type Message struct {
	Text string
	Kind Kind
}

// Board holds the single visible message of the web console.
// Every message is cleared after the board's duration. A newer message is never blanked by
// the clear scheduled for an older one: each clear only applies to the message it was
// scheduled for.
type Board struct {
	mu       sync.Mutex
	current  Message
	seq      uint64
	duration time.Duration
	schedule func(d time.Duration, f func())
}

// NewBoard creates a board clearing messages after d, DefaultDuration when d is not positive.
func NewBoard(d time.Duration) *Board {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Board{
		duration: d,
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Notify replaces the visible message and schedules its removal.
func (b *Board) Notify(text string, kind Kind) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.current = Message{Text: text, Kind: kind}
	b.mu.Unlock()

	b.schedule(b.duration, func() { b.clear(seq) })
}

// Current returns the visible message.
func (b *Board) Current() Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Board) clear(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq != seq {
		return
	}
	b.current = Message{}
}

// Printer writes messages straight away: successes to Out, errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

func (p *Printer) Notify(text string, kind Kind) {
	w := p.Out
	if kind == Error {
		w = p.Err
	}
	_, _ = fmt.Fprintln(w, text)
}
