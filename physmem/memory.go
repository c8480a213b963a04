package physmem

import (
	"errors"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/forestrie/go-pagetrie/pagetrie"
)

var (
	ErrExhausted     = errors.New("physmem: no free frames")
	ErrNoFrames      = errors.New("physmem: config must provide at least one frame")
	ErrRangeOverflow = errors.New("physmem: frame range exceeds the maximum ppn")
)

// Config describes the simulated physical memory.
type Config struct {
	// Frames is the number of 4KiB frames backing the memory.
	Frames uint64

	// BasePPN is the page number of the first frame. Leaving it at zero is
	// fine, the trie does not reserve any page number.
	BasePPN pagetrie.PPN
}

// Memory is an in-process stand in for physical memory. It implements
// pagetrie.Frames.
//
// A fresh memory hands out frames lowest page number first, freed frames are
// reused most recently freed first. Both keep tests deterministic. Memory is
// not go routine safe.
type Memory struct {
	log   logger.Logger
	id    uuid.UUID
	cfg   Config
	pages []pagetrie.Node
	inUse []bool

	// free is a stack of frame offsets, the top is the next allocation.
	free []uint64

	allocs uint64
	frees  uint64
}

func New(log logger.Logger, cfg Config) (*Memory, error) {
	if cfg.Frames == 0 {
		return nil, ErrNoFrames
	}
	last := uint64(cfg.BasePPN) + cfg.Frames - 1
	if last < uint64(cfg.BasePPN) || pagetrie.PPN(last) > pagetrie.MaxPPN {
		return nil, fmt.Errorf("%d frames at %x: %w", cfg.Frames, uint64(cfg.BasePPN), ErrRangeOverflow)
	}

	m := &Memory{
		log:   log,
		id:    uuid.New(),
		cfg:   cfg,
		pages: make([]pagetrie.Node, cfg.Frames),
		inUse: make([]bool, cfg.Frames),
		free:  make([]uint64, 0, cfg.Frames),
	}
	for i := cfg.Frames; i > 0; i-- {
		m.free = append(m.free, i-1)
	}
	m.log.Debugf("physmem %s: %d frames at ppn %x", m.id, cfg.Frames, uint64(cfg.BasePPN))
	return m, nil
}

func (m *Memory) ID() uuid.UUID { return m.id }

func (m *Memory) Config() Config { return m.cfg }

// AllocFrame returns a zero filled frame.
func (m *Memory) AllocFrame() (pagetrie.PPN, error) {
	if len(m.free) == 0 {
		m.log.Debugf("physmem %s: exhausted after %d allocs", m.id, m.allocs)
		return 0, ErrExhausted
	}
	off := m.free[len(m.free)-1]
	m.free = m.free[:len(m.free)-1]

	m.pages[off] = pagetrie.Node{}
	m.inUse[off] = true
	m.allocs++
	return m.cfg.BasePPN + pagetrie.PPN(off), nil
}

// FreeFrame returns ppn to the free list. Freeing a frame that is not
// allocated is a caller bug and panics.
func (m *Memory) FreeFrame(ppn pagetrie.PPN) {
	off := m.offset(ppn)
	if !m.inUse[off] {
		panic(fmt.Sprintf("physmem: double free of ppn %x", uint64(ppn)))
	}
	m.inUse[off] = false
	m.free = append(m.free, off)
	m.frees++
}

// Deref returns the writable content of an allocated frame.
func (m *Memory) Deref(ppn pagetrie.PPN) *pagetrie.Node {
	off := m.offset(ppn)
	if !m.inUse[off] {
		panic(fmt.Sprintf("physmem: deref of unallocated ppn %x", uint64(ppn)))
	}
	return &m.pages[off]
}

// Allocated reports whether ppn is currently handed out.
func (m *Memory) Allocated(ppn pagetrie.PPN) bool {
	if ppn < m.cfg.BasePPN || uint64(ppn-m.cfg.BasePPN) >= m.cfg.Frames {
		return false
	}
	return m.inUse[ppn-m.cfg.BasePPN]
}

// InUse returns the number of frames currently allocated.
func (m *Memory) InUse() uint64 { return m.cfg.Frames - uint64(len(m.free)) }

// Available returns the number of frames that can still be allocated.
func (m *Memory) Available() uint64 { return uint64(len(m.free)) }

// Allocs and Frees are lifetime call counts.
func (m *Memory) Allocs() uint64 { return m.allocs }
func (m *Memory) Frees() uint64 { return m.frees }

func (m *Memory) offset(ppn pagetrie.PPN) uint64 {
	if ppn < m.cfg.BasePPN || uint64(ppn-m.cfg.BasePPN) >= m.cfg.Frames {
		panic(fmt.Sprintf("physmem: ppn %x outside memory %s", uint64(ppn), m.id))
	}
	return uint64(ppn - m.cfg.BasePPN)
}
