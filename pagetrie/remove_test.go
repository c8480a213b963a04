package pagetrie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestrie/go-pagetrie/pagetrie"
)

func TestRemoveReclaimsPath(t *testing.T) {
	tc := newTestContext(t)
	tbl := tc.Table

	require.NoError(t, tbl.Install(0x1000, 0x55))
	require.True(t, tbl.Remove(0x1000))

	assert.Equal(t, pagetrie.NoMapping, tbl.Lookup(0x1000))
	assert.Equal(t, 4, tc.Frames.Frees)
	assert.Equal(t, tc.Frames.Allocs, tc.Frames.Frees)
	assert.True(t, tc.Memory.Deref(tbl.Root()).Empty())
	tc.RequireNoLeaks(tbl.Root())

	// A fresh memory hands out ppn 0 for the root then 1..4 down the path.
	// Reclamation runs deepest node first and never reaches the root.
	assert.Equal(t, pagetrie.PPN(0), tbl.Root())
	assert.Equal(t, []pagetrie.PPN{4, 3, 2, 1}, tc.Frames.Freed)
}

func TestRemoveMissIsNoop(t *testing.T) {
	tc := newTestContext(t)
	tbl := tc.Table

	v1 := vpnOf(1, 2, 3, 4, 5)
	require.NoError(t, tbl.Install(v1, 0x11))
	before := tbl.Stats()
	rootBefore := *tc.Memory.Deref(tbl.Root())
	tc.Frames.Reset()

	misses := []pagetrie.VPN{
		vpnOf(2, 2, 3, 4, 5), // invalid at depth 0
		vpnOf(1, 3, 3, 4, 5), // invalid at depth 1
		vpnOf(1, 2, 3, 9, 5), // invalid at depth 3
		vpnOf(1, 2, 3, 4, 6), // invalid leaf
		pagetrie.MaxVPN + 1,
	}
	for _, vpn := range misses {
		assert.False(t, tbl.Remove(vpn), "vpn %x", uint64(vpn))
	}

	assert.Equal(t, 0, tc.Frames.Allocs)
	assert.Equal(t, 0, tc.Frames.Frees)
	assert.Equal(t, before, tbl.Stats())
	assert.Equal(t, rootBefore, *tc.Memory.Deref(tbl.Root()))
	assert.Equal(t, pagetrie.PPN(0x11), tbl.Lookup(v1))
}

func TestRemoveTwice(t *testing.T) {
	tc := newTestContext(t)
	tbl := tc.Table

	v1, v2 := vpnOf(0, 0, 0, 0, 1), vpnOf(0, 0, 0, 0, 2)
	require.NoError(t, tbl.Install(v1, 1))
	require.NoError(t, tbl.Install(v2, 2))

	require.True(t, tbl.Remove(v1))
	frees := tc.Frames.Frees
	require.False(t, tbl.Remove(v1))
	assert.Equal(t, frees, tc.Frames.Frees)
	assert.Equal(t, pagetrie.PPN(2), tbl.Lookup(v2))
}

func TestRemoveKeepsSharedAncestors(t *testing.T) {
	tc := newTestContext(t)
	tbl := tc.Table

	// Same indices at depths 0..2, different at depth 3.
	v1 := vpnOf(1, 2, 3, 4, 5)
	v2 := vpnOf(1, 2, 3, 6, 5)
	require.NoError(t, tbl.Install(v1, 0x11))
	require.NoError(t, tbl.Install(v2, 0x22))
	assert.Equal(t, 5, tc.Frames.Allocs)

	st := tbl.Stats()
	assert.Equal(t, [pagetrie.Levels]int{1, 1, 1, 1, 2}, st.Nodes)

	require.True(t, tbl.Remove(v1))
	// Only the depth 4 node private to v1 goes.
	assert.Equal(t, 1, tc.Frames.Frees)
	assert.Equal(t, [pagetrie.Levels]int{1, 1, 1, 1, 1}, tbl.Stats().Nodes)
	assert.Equal(t, pagetrie.PPN(0x22), tbl.Lookup(v2))
	assert.Equal(t, pagetrie.NoMapping, tbl.Lookup(v1))

	require.True(t, tbl.Remove(v2))
	assert.Equal(t, 5, tc.Frames.Frees)
	tc.RequireNoLeaks(tbl.Root())
}

func TestRemoveStopsAtFirstNonEmptyNode(t *testing.T) {
	tc := newTestContext(t)
	tbl := tc.Table

	// v2 shares the leaf node with v1, v3 only the root.
	v1 := vpnOf(7, 7, 7, 7, 1)
	v2 := vpnOf(7, 7, 7, 7, 2)
	v3 := vpnOf(8, 0, 0, 0, 0)
	for i, v := range []pagetrie.VPN{v1, v2, v3} {
		require.NoError(t, tbl.Install(v, pagetrie.PPN(i+1)))
	}
	tc.Frames.Reset()

	require.True(t, tbl.Remove(v1))
	assert.Equal(t, 0, tc.Frames.Frees)

	require.True(t, tbl.Remove(v2))
	assert.Equal(t, 4, tc.Frames.Frees)
	assert.Equal(t, pagetrie.PPN(3), tbl.Lookup(v3))
	assert.Equal(t, 1, tc.Memory.Deref(tbl.Root()).Count())
}

func TestRootSurvivesRepeatedCycles(t *testing.T) {
	tc := newTestContext(t)
	tbl := tc.Table
	root := tbl.Root()

	vpns := []pagetrie.VPN{0, 1, 0x1000, vpnOf(511, 0, 0, 0, 0), pagetrie.MaxVPN}
	for round := 0; round < 3; round++ {
		for i, v := range vpns {
			require.NoError(t, tbl.Install(v, pagetrie.PPN(i+round)))
		}
		for _, v := range vpns {
			require.True(t, tbl.Remove(v))
		}
		tc.RequireNoLeaks(root)
		assert.True(t, tc.Memory.Deref(root).Empty())
	}
	assert.NotContains(t, tc.Frames.Freed, root)

	require.NoError(t, tbl.Install(0x42, 0x43))
	assert.Equal(t, pagetrie.PPN(0x43), tbl.Lookup(0x42))
}
