package pagetrie

// Node is the content of one trie page.
type Node [EntriesPerNode]Entry

// Empty reports whether every entry of n is invalid.
func (n *Node) Empty() bool {
	for i := range n {
		if n[i].Valid() {
			return false
		}
	}
	return true
}

// Count returns the number of valid entries in n.
func (n *Node) Count() int {
	c := 0
	for i := range n {
		if n[i].Valid() {
			c++
		}
	}
	return c
}

// frame records the slot a traversal passed through at one depth.
type frame struct {
	node  PPN
	index int
}
