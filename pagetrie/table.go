package pagetrie

import (
	"errors"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Table binds a caller owned root frame to its collaborators.
//
// A Table is not go routine safe. Callers serialise every operation against
// the same root, tables over different roots may share Frames if the
// allocator itself permits it.
type Table struct {
	log    logger.Logger
	frames Frames
	root   PPN
}

// NewTable returns a handle for the page table rooted at root. The root frame
// must be zero filled when the table is first used and stays owned by the
// caller.
func NewTable(log logger.Logger, frames Frames, root PPN) *Table {
	return &Table{
		log:    log,
		frames: frames,
		root:   root,
	}
}

func (t *Table) Root() PPN { return t.root }

func (t *Table) Frames() Frames { return t.frames }

// Install maps vpn to ppn, see Install.
func (t *Table) Install(vpn VPN, ppn PPN) error {
	err := Install(t.frames, t.root, vpn, ppn)
	if errors.Is(err, ErrAllocationExhausted) {
		t.log.Infof("install: root=%x vpn=%x ppn=%x: %v", uint64(t.root), uint64(vpn), uint64(ppn), err)
		return err
	}
	if err != nil {
		return err
	}
	t.log.Debugf("install: root=%x vpn=%x ppn=%x", uint64(t.root), uint64(vpn), uint64(ppn))
	return nil
}

// Remove deletes the mapping for vpn, see Remove.
func (t *Table) Remove(vpn VPN) bool {
	removed := Remove(t.frames, t.root, vpn)
	t.log.Debugf("remove: root=%x vpn=%x removed=%v", uint64(t.root), uint64(vpn), removed)
	return removed
}

// Query resolves vpn, see Query.
func (t *Table) Query(vpn VPN) (PPN, bool) {
	return Query(t.frames, t.root, vpn)
}

// Lookup resolves vpn to a ppn or NoMapping.
func (t *Table) Lookup(vpn VPN) PPN {
	return Lookup(t.frames, t.root, vpn)
}

// Update installs, or removes when ppn is NoMapping.
func (t *Table) Update(vpn VPN, ppn PPN) error {
	if ppn == NoMapping {
		t.Remove(vpn)
		return nil
	}
	return t.Install(vpn, ppn)
}

func (t *Table) Walk(fn func(vpn VPN, ppn PPN) error) error {
	return Walk(t.frames, t.root, fn)
}

func (t *Table) Stats() Stats {
	return Collect(t.frames, t.root)
}
