package controller

import "sync"

type progressState int

const (
	progressIdle progressState = iota
	progressActive
	progressCanceled
)

// Progress drives a cancelable modal indicator from backend percent reports.
// A report of 0 opens a fresh indicator, 100 always closes it, and anything
// in between either updates the display or, once the user has canceled,
// freezes it and aborts the backend work exactly once.
type Progress struct {
	factory IndicatorFactory
	abort   func()

	mu        sync.Mutex
	state     progressState
	indicator ProgressIndicator
}

func newProgress(factory IndicatorFactory, abort func()) *Progress {
	return &Progress{factory: factory, abort: abort}
}

// Report applies one backend progress update.
func (p *Progress) Report(title string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case percent == 0:
		// A new run replaces whatever indicator a previous run left behind.
		p.closeLocked()
		if p.factory != nil {
			p.indicator = p.factory(title)
		}
		if p.indicator != nil {
			p.indicator.SetPercent(0)
		}
		p.state = progressActive
	case percent == 100:
		p.closeLocked()
		p.state = progressIdle
	case p.state == progressActive:
		if p.indicator == nil {
			return
		}
		if p.indicator.Canceled() {
			p.state = progressCanceled
			if p.abort != nil {
				p.abort()
			}
			return
		}
		p.indicator.SetPercent(percent)
	default:
		// Idle reports without a preceding 0 and everything after a cancel
		// are dropped; the indicator stays frozen until the closing 100.
	}
}

func (p *Progress) closeLocked() {
	if p.indicator == nil {
		return
	}
	p.indicator.Close()
	p.indicator = nil
}
