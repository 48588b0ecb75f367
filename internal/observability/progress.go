package observability

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// DefaultProgressEvery is how many buildings a progress line holds before
// the running count is printed.
const DefaultProgressEvery = 10

// Progress prints one dot per included building and the running total after
// every `every` buildings. It is safe for concurrent use.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	every int
	n     int
	dot   *color.Color
	count *color.Color
}

// NewProgress creates a Progress writing to w. A non-positive every falls
// back to DefaultProgressEvery.
func NewProgress(w io.Writer, every int) *Progress {
	if every <= 0 {
		every = DefaultProgressEvery
	}
	return &Progress{
		w:     w,
		every: every,
		dot:   color.New(color.FgGreen),
		count: color.New(color.FgHiBlack),
	}
}

// Tick records one included building.
func (p *Progress) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.n++
	p.dot.Fprint(p.w, ".") //nolint:errcheck // progress output is best-effort
	if p.n%p.every == 0 {
		p.count.Fprintf(p.w, " %d\n", p.n) //nolint:errcheck // progress output is best-effort
	}
}

// Done terminates a partial line with the final total.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.n%p.every != 0 {
		p.count.Fprintf(p.w, " %d\n", p.n) //nolint:errcheck // progress output is best-effort
	}
}

// Count returns the number of buildings ticked so far.
func (p *Progress) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}
