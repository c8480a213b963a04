package pagetrie

// Remove deletes the mapping for vpn and reclaims every intermediate node the
// deletion leaves empty. The root is never reclaimed.
//
// Returns false, without writing anything, when vpn is not mapped.
func Remove(frames Frames, root PPN, vpn VPN) bool {
	if vpn > MaxVPN {
		return false
	}

	// path[d] is the slot followed at depth d, path[LeafDepth] is the leaf.
	var path [Levels]frame

	node := root
	for depth := 0; depth < Levels; depth++ {
		idx := Index(vpn, depth)
		e := frames.Deref(node)[idx]
		if !e.Valid() {
			// Nothing changed anywhere on the path.
			return false
		}
		path[depth] = frame{node: node, index: idx}
		if depth == LeafDepth {
			break
		}
		node = e.PPN()
	}

	leaf := path[LeafDepth]
	frames.Deref(leaf.node)[leaf.index] = 0

	// Post-order cleanup. path[depth].node was reached through the slot at
	// path[depth-1], depth 0 is the root and is never considered.
	for depth := LeafDepth; depth > 0; depth-- {
		child := path[depth].node
		if !frames.Deref(child).Empty() {
			// Ancestors all reach child, so they are non-empty too.
			break
		}
		parent := path[depth-1]
		frames.Deref(parent.node)[parent.index] = 0
		frames.FreeFrame(child)
	}
	return true
}
