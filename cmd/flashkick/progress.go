package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

const barWidth = 30

// progressPrinter renders upload progress for the one-shot commands. On a
// terminal it redraws a bar in place; otherwise it prints a line every 10%.
type progressPrinter struct {
	w    io.Writer
	tty  bool
	size int64

	mu       sync.Mutex
	lastStep int
	drawn    bool
}

func newProgressPrinter(w io.Writer, tty bool, size int64) *progressPrinter {
	return &progressPrinter{w: w, tty: tty, size: size, lastStep: -1}
}

func (p *progressPrinter) OnEvent(ev forms.Event) {
	if ev.Form != forms.KindFile || ev.SubmissionID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case ev.State.Status.Terminal():
		if p.drawn && p.tty {
			fmt.Fprintln(p.w)
		}
		p.drawn = false
		return
	case ev.State.Status != submission.Submitting:
		return
	}

	if p.tty {
		fmt.Fprintf(p.w, "\r%s", renderBar(ev.Progress, p.size))
		p.drawn = true
		return
	}

	step := ev.Progress / 10
	if step == p.lastStep {
		return
	}
	p.lastStep = step
	fmt.Fprintf(p.w, "uploaded %d%% (%s of %s)\n", ev.Progress, sent(ev.Progress, p.size), humanize.IBytes(uint64(p.size)))
}

func renderBar(percent int, size int64) string {
	filled := percent * barWidth / 100
	return fmt.Sprintf("[%s%s] %3d%% %s / %s",
		strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled),
		percent, sent(percent, size), humanize.IBytes(uint64(size)))
}

func sent(percent int, size int64) string {
	return humanize.IBytes(uint64(size * int64(percent) / 100))
}
