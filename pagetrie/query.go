package pagetrie

// Query resolves vpn under root. ok is false when there is no mapping, in
// which case ppn is NoMapping.
//
// Query never allocates or writes and visits at most Levels nodes.
func Query(m FrameMapper, root PPN, vpn VPN) (ppn PPN, ok bool) {
	if vpn > MaxVPN {
		return NoMapping, false
	}
	node := root
	for depth := 0; ; depth++ {
		e := *Locate(m, vpn, node, depth)
		if !e.Valid() {
			return NoMapping, false
		}
		if depth == LeafDepth {
			return e.PPN(), true
		}
		node = e.PPN()
	}
}

// Lookup is Query in sentinel form: it returns NoMapping for an unmapped vpn.
func Lookup(m FrameMapper, root PPN, vpn VPN) PPN {
	ppn, _ := Query(m, root, vpn)
	return ppn
}
