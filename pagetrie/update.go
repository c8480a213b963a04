package pagetrie

// Update sets the mapping for vpn to ppn. Passing NoMapping removes the
// mapping instead, in which case a missing mapping is not an error.
func Update(frames Frames, root PPN, vpn VPN, ppn PPN) error {
	if ppn == NoMapping {
		Remove(frames, root, vpn)
		return nil
	}
	return Install(frames, root, vpn, ppn)
}
