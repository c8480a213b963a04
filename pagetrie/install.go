package pagetrie

import "fmt"

// Install maps vpn to ppn under root, creating any missing intermediate nodes.
//
// An existing mapping for vpn is overwritten. The previously mapped page is
// not freed, it belongs to the caller.
//
// If a frame can not be allocated, every node created by this call is unlinked
// and freed again before ErrAllocationExhausted is returned. The trie is then
// unchanged.
func Install(frames Frames, root PPN, vpn VPN, ppn PPN) error {
	if vpn > MaxVPN {
		return fmt.Errorf("%x: %w", uint64(vpn), ErrVPNOutOfRange)
	}
	if ppn > MaxPPN {
		return fmt.Errorf("%x: %w", uint64(ppn), ErrPPNOutOfRange)
	}

	// created[i] is the parent slot of the i'th node allocated by this call.
	var created [LeafDepth]frame
	n := 0

	node := root
	for depth := 0; depth < LeafDepth; depth++ {
		idx := Index(vpn, depth)
		e := frames.Deref(node)[idx]
		if !e.Valid() {
			child, err := frames.AllocFrame()
			if err != nil {
				rollback(frames, created[:n])
				return fmt.Errorf("vpn %x depth %d: %w: %w", uint64(vpn), depth, ErrAllocationExhausted, err)
			}
			e = MakeEntry(child)
			// Re-deref, the allocator is free to move views around.
			frames.Deref(node)[idx] = e
			created[n] = frame{node: node, index: idx}
			n++
		}
		node = e.PPN()
	}

	*Locate(frames, vpn, node, LeafDepth) = MakeEntry(ppn)
	return nil
}

// rollback undoes the node creation recorded in created, deepest first. Each
// node was created empty and only ever gained the link to the next created
// node, which is undone first, so every freed node is empty.
func rollback(frames Frames, created []frame) {
	for i := len(created) - 1; i >= 0; i-- {
		slot := &frames.Deref(created[i].node)[created[i].index]
		child := slot.PPN()
		*slot = 0
		frames.FreeFrame(child)
	}
}
