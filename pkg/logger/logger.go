// Package logger adds a small deduplication layer on top of the standard
// log package. A check run emits the same miss line once per pincode per
// product, which gets noisy with long pincode lists; identical consecutive
// lines are collapsed into one line with a repeat count.
package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

type Deduper struct {
	mu         sync.Mutex
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
}

func NewDeduper(flushDelay time.Duration) *Deduper {
	return &Deduper{flushDelay: flushDelay}
}

var std = NewDeduper(2 * time.Second)

// Dedup logs through the package-level deduplicator.
func Dedup(format string, args ...any) {
	std.Printf(format, args...)
}

// Flush forces out any pending collapsed line.
func Flush() {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.flush()
}

func (d *Deduper) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()

	if msg == d.lastMsg {
		d.count++
		d.resetTimer()
		return
	}

	d.flush()
	d.lastMsg = msg
	d.count = 1
	d.resetTimer()
}

func (d *Deduper) resetTimer() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.flushDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.flush()
	})
}

// flush expects d.mu to be held.
func (d *Deduper) flush() {
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		log.Print(d.lastMsg)
	} else {
		log.Printf("%s (%d)", d.lastMsg, d.count)
	}
	d.count = 0
	d.lastMsg = ""
}
