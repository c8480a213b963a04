package pagetrie

// Stats summarises the shape of a table.
type Stats struct {
	// Nodes[d] is the number of nodes visited at depth d. Nodes[0] is always
	// 1, the root.
	Nodes [Levels]int

	// Leaves is the number of installed mappings.
	Leaves int
}

// NodeCount returns the total number of nodes including the root.
func (s Stats) NodeCount() int {
	n := 0
	for _, c := range s.Nodes {
		n += c
	}
	return n
}

// Walk calls fn for every mapping under root in ascending vpn order. A non nil
// error from fn stops the walk and is returned as is.
//
// fn must not modify the table.
func Walk(m FrameMapper, root PPN, fn func(vpn VPN, ppn PPN) error) error {
	return walkNode(m, root, 0, 0, fn)
}

func walkNode(m FrameMapper, node PPN, depth int, prefix VPN, fn func(VPN, PPN) error) error {
	n := m.Deref(node)
	for i := range n {
		slot := Decode(n[i], depth)
		if slot.Kind == KindEmpty {
			continue
		}
		vpn := prefix<<IndexBits | VPN(i)
		if slot.Kind == KindLeaf {
			if err := fn(vpn, slot.PPN); err != nil {
				return err
			}
			continue
		}
		if err := walkNode(m, slot.PPN, depth+1, vpn, fn); err != nil {
			return err
		}
	}
	return nil
}

// Collect returns the node and leaf counts for the table under root.
func Collect(m FrameMapper, root PPN) Stats {
	var st Stats
	collectNode(m, root, 0, &st)
	return st
}

func collectNode(m FrameMapper, node PPN, depth int, st *Stats) {
	st.Nodes[depth]++
	n := m.Deref(node)
	for i := range n {
		slot := Decode(n[i], depth)
		switch slot.Kind {
		case KindLeaf:
			st.Leaves++
		case KindNode:
			collectNode(m, slot.PPN, depth+1, st)
		}
	}
}
