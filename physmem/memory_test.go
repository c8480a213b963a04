package physmem

import (
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestrie/go-pagetrie/pagetrie"
)

func newMemory(t *testing.T, cfg Config) *Memory {
	logger.New("NOOP")
	m, err := New(logger.Sugar.WithServiceName(t.Name()), cfg)
	require.NoError(t, err)
	return m
}

func TestNewRejectsBadConfig(t *testing.T) {
	logger.New("NOOP")
	log := logger.Sugar.WithServiceName(t.Name())

	_, err := New(log, Config{})
	require.ErrorIs(t, err, ErrNoFrames)

	_, err = New(log, Config{Frames: 2, BasePPN: pagetrie.MaxPPN})
	require.ErrorIs(t, err, ErrRangeOverflow)
}

func TestAllocFrameOrderAndExhaustion(t *testing.T) {
	m := newMemory(t, Config{Frames: 3, BasePPN: 0x100})

	for _, want := range []pagetrie.PPN{0x100, 0x101, 0x102} {
		got, err := m.AllocFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := m.AllocFrame()
	require.ErrorIs(t, err, ErrExhausted)

	assert.Equal(t, uint64(3), m.InUse())
	assert.Equal(t, uint64(0), m.Available())
	assert.Equal(t, uint64(3), m.Allocs())
}

func TestFreedFrameIsReusedZeroed(t *testing.T) {
	m := newMemory(t, Config{Frames: 2})

	a, err := m.AllocFrame()
	require.NoError(t, err)
	m.Deref(a)[17] = pagetrie.MakeEntry(5)
	m.FreeFrame(a)
	assert.False(t, m.Allocated(a))

	b, err := m.AllocFrame()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, m.Deref(b).Empty())
	assert.Equal(t, uint64(1), m.Frees())
}

func TestMisuseFaults(t *testing.T) {
	m := newMemory(t, Config{Frames: 2, BasePPN: 8})

	a, err := m.AllocFrame()
	require.NoError(t, err)
	m.FreeFrame(a)

	require.Panics(t, func() { m.FreeFrame(a) }, "double free")
	require.Panics(t, func() { m.Deref(a) }, "deref of a free frame")
	require.Panics(t, func() { m.Deref(7) }, "below the memory")
	require.Panics(t, func() { m.FreeFrame(10) }, "above the memory")
	assert.False(t, m.Allocated(7))
	assert.False(t, m.Allocated(10))
}

func TestMemoryBacksATable(t *testing.T) {
	m := newMemory(t, Config{Frames: 16})
	assert.NotEqual(t, uuid.Nil, m.ID())

	root, err := m.AllocFrame()
	require.NoError(t, err)

	tbl := pagetrie.NewTable(logger.Sugar.WithServiceName(t.Name()), m, root)
	require.NoError(t, tbl.Install(0x1000, 0x55))
	assert.Equal(t, uint64(5), m.InUse())
	require.True(t, tbl.Remove(0x1000))
	assert.Equal(t, uint64(1), m.InUse())
	assert.True(t, m.Allocated(root))
}
