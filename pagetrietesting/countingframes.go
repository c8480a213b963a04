package pagetrietesting

import (
	"errors"

	"github.com/forestrie/go-pagetrie/pagetrie"
)

var ErrInjectedFailure = errors.New("pagetrietesting: injected allocation failure")

// CountingFrames wraps a pagetrie.Frames, counting allocator traffic and
// optionally failing allocations on demand.
type CountingFrames struct {
	pagetrie.Frames

	Allocs int
	Frees  int
	Derefs int

	// Freed lists every frame released, in order.
	Freed []pagetrie.PPN

	// FailAfter, when >= 0, lets that many further allocations succeed and
	// fails every one after.
	FailAfter int
}

func NewCountingFrames(frames pagetrie.Frames) *CountingFrames {
	return &CountingFrames{Frames: frames, FailAfter: -1}
}

func (f *CountingFrames) AllocFrame() (pagetrie.PPN, error) {
	if f.FailAfter == 0 {
		return 0, ErrInjectedFailure
	}
	if f.FailAfter > 0 {
		f.FailAfter--
	}
	ppn, err := f.Frames.AllocFrame()
	if err != nil {
		return 0, err
	}
	f.Allocs++
	return ppn, nil
}

func (f *CountingFrames) FreeFrame(ppn pagetrie.PPN) {
	f.Frees++
	f.Freed = append(f.Freed, ppn)
	f.Frames.FreeFrame(ppn)
}

func (f *CountingFrames) Deref(ppn pagetrie.PPN) *pagetrie.Node {
	f.Derefs++
	return f.Frames.Deref(ppn)
}

// Reset zeroes the counters and clears any failure injection.
func (f *CountingFrames) Reset() {
	f.Allocs, f.Frees, f.Derefs = 0, 0, 0
	f.Freed = nil
	f.FailAfter = -1
}
