package pagetrie

/*

# Five-level trie page tables

This package maps virtual page numbers (VPN) to physical page numbers (PPN)
through a radix trie of fixed size nodes. Each node is itself a physical page
holding 512 64-bit entries, so every level consumes 9 bits of the VPN:

	VPN (45 bits)  | idx0 (9) | idx1 (9) | idx2 (9) | idx3 (9) | idx4 (9) |
	                  depth 0    depth 1    depth 2    depth 3    depth 4

The virtual address is the VPN shifted left by 12, so the five indices occupy
bits [12+9*(4-d) .. 20+9*(4-d)] of a 57-bit address.

It follows the same "functional primitives" style as `go-merklelog/mmr`:

- small, composable functions taking the storage collaborators explicitly
- explicit entry layout
- index arithmetic rather than pointer chasing
- a burden of knowledge on the caller (single threaded access per root)

## Entries

An entry is `(PPN << 12) | valid`. At depths 0..3 a valid entry names a child
node, at depth 4 it names the mapped page. Decode turns the raw word into a
tagged Slot so the distinction is explicit at the call site.

## Collaborators

The package never touches memory directly. Frames are obtained and released
through FrameAllocator and viewed through FrameMapper. The root frame is owned
by the caller: it is never allocated, invalidated or freed here.

## Reclamation

Remove performs a post-order cleanup. Walking back up from the leaf, a node
whose 512 entries are all invalid is unlinked from its parent and freed. The
first non-empty node ends the cleanup because every ancestor still reaches it.

## Allocation failure

Install rolls back. Any node created by a failed call is unlinked and freed
before the error is returned, leaving the trie exactly as it was.

*/
