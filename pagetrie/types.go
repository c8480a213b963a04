package pagetrie

import "errors"

const (
	// PageShift is log2 of the page size.
	PageShift = 12
	PageBytes = 1 << PageShift

	// IndexBits is the number of VPN bits consumed per level.
	IndexBits = 9
	IndexMask = (1 << IndexBits) - 1

	// EntriesPerNode is the fan out of every trie node.
	EntriesPerNode = 1 << IndexBits
	EntryBytes     = 8

	// Levels is the trie height. The root is visited at depth 0 and leaf
	// entries live at LeafDepth.
	Levels    = 5
	LeafDepth = Levels - 1

	VPNBits = Levels * IndexBits
	MaxVPN  = VPN(1)<<VPNBits - 1

	// VirtualAddressBits is the width of the address a VPN is drawn from.
	VirtualAddressBits = VPNBits + PageShift

	// PPNBits is the widest PPN that survives the shift into an entry.
	PPNBits = 64 - PageShift
	MaxPPN  = PPN(1)<<PPNBits - 1
)

// VPN is a virtual page number. Only the low VPNBits select a trie path.
type VPN uint64

// PPN is a physical page number. It names both trie nodes and mapped pages.
type PPN uint64

// NoMapping is the "not mapped" sentinel. It is greater than MaxPPN so it can
// never be installed as a mapping.
const NoMapping = ^PPN(0)

var (
	ErrAllocationExhausted = errors.New("pagetrie: frame allocation exhausted")
	ErrVPNOutOfRange       = errors.New("pagetrie: vpn wider than 45 bits")
	ErrPPNOutOfRange       = errors.New("pagetrie: ppn does not fit an entry")
)

// FrameAllocator supplies and releases physical frames.
//
// AllocFrame must return a zero filled frame. FreeFrame is called at most once
// for any frame returned by AllocFrame.
type FrameAllocator interface {
	AllocFrame() (PPN, error)
	FreeFrame(ppn PPN)
}

// FrameMapper resolves a physical page to a writable view of its entries.
type FrameMapper interface {
	Deref(ppn PPN) *Node
}

// Frames is the full set of collaborators needed to mutate a table.
type Frames interface {
	FrameAllocator
	FrameMapper
}

// Address returns the page aligned physical byte address of ppn.
func (p PPN) Address() uint64 {
	return uint64(p) << PageShift
}
