package pagetrie

import "fmt"

// Entry is one 64-bit word of a trie node: (PPN << PageShift) | ValidBit.
type Entry uint64

const (
	ValidBit Entry = 1

	// flagMask covers the low bits that are ignored when reading the PPN.
	flagMask Entry = PageBytes - 1
)

// MakeEntry returns a valid entry naming ppn. The flag bits other than
// ValidBit are always zero.
func MakeEntry(ppn PPN) Entry {
	return Entry(ppn)<<PageShift | ValidBit
}

func (e Entry) Valid() bool {
	return e&ValidBit != 0
}

// PPN returns the page number held by the entry with the flag bits dropped.
// The result is meaningless when the entry is not valid.
func (e Entry) PPN() PPN {
	return PPN((e &^ flagMask) >> PageShift)
}

// EntryKind says what a slot holds once its depth is taken into account.
type EntryKind uint8

const (
	KindEmpty EntryKind = iota
	KindNode
	KindLeaf
)

func (k EntryKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNode:
		return "node"
	case KindLeaf:
		return "leaf"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Slot is the decoded form of an entry.
type Slot struct {
	Kind EntryKind
	PPN  PPN
}

// Decode interprets e as found at depth. Valid entries above LeafDepth are
// child node pointers, valid entries at LeafDepth are mappings.
func Decode(e Entry, depth int) Slot {
	checkDepth(depth)
	if !e.Valid() {
		return Slot{Kind: KindEmpty}
	}
	if depth == LeafDepth {
		return Slot{Kind: KindLeaf, PPN: e.PPN()}
	}
	return Slot{Kind: KindNode, PPN: e.PPN()}
}

// Encode returns the raw entry for s. Empty slots encode as zero.
func (s Slot) Encode() Entry {
	if s.Kind == KindEmpty {
		return 0
	}
	return MakeEntry(s.PPN)
}
