package pagetrie

import "fmt"

// Index returns the 9-bit node index selected by vpn at depth. Depth 0 takes
// the most significant group.
func Index(vpn VPN, depth int) int {
	checkDepth(depth)
	return int((vpn >> (IndexBits * (LeafDepth - depth))) & IndexMask)
}

// Locate returns the entry slot for vpn inside node, which is being visited
// at depth.
func Locate(m FrameMapper, vpn VPN, node PPN, depth int) *Entry {
	return &m.Deref(node)[Index(vpn, depth)]
}

// VirtualAddress returns the page aligned virtual address of vpn.
func VirtualAddress(vpn VPN) uint64 {
	return uint64(vpn) << PageShift
}

// VPNOf returns the virtual page number containing va.
func VPNOf(va uint64) VPN {
	return VPN(va >> PageShift)
}

// checkDepth panics on a depth outside the trie. Reaching it means a caller
// bug, there is no recoverable condition.
func checkDepth(depth int) {
	if depth < 0 || depth > LeafDepth {
		panic(fmt.Sprintf("pagetrie: depth %d outside [0,%d]", depth, LeafDepth))
	}
}
