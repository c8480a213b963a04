package pagetrietesting

import (
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/require"

	"github.com/forestrie/go-pagetrie/pagetrie"
	"github.com/forestrie/go-pagetrie/physmem"
)

const (
	// DefaultFrames is enough for a few thousand scattered mappings.
	DefaultFrames = 4096
)

// TestConfig sizes the memory behind a TestContext. Frames defaults to
// DefaultFrames and LogLevel to NOOP when left zero.
type TestConfig struct {
	TestLabelPrefix string
	Frames          uint64
	BasePPN         pagetrie.PPN
	LogLevel        string
}

// TestContext carries a memory, a zeroed root frame taken from it and a table
// bound to both.
type TestContext struct {
	Log    logger.Logger
	Memory *physmem.Memory
	Frames *CountingFrames
	Table  *pagetrie.Table
	T      *testing.T
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T: t,
	}
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	frames := cfg.Frames
	if frames == 0 {
		frames = DefaultFrames
	}
	var err error
	c.Memory, err = physmem.New(c.Log, physmem.Config{Frames: frames, BasePPN: cfg.BasePPN})
	require.NoError(t, err)

	// The root comes from the memory directly so the counters only see
	// traffic generated by the trie.
	root, err := c.Memory.AllocFrame()
	require.NoError(t, err)

	c.Frames = NewCountingFrames(c.Memory)
	c.Table = pagetrie.NewTable(c.Log, c.Frames, root)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// NewTable returns a second table over the same memory with its own root.
func (c *TestContext) NewTable() *pagetrie.Table {
	root, err := c.Memory.AllocFrame()
	require.NoError(c.T, err)
	return pagetrie.NewTable(c.Log, c.Frames, root)
}

// RequireNoLeaks checks every frame except the roots listed has been
// returned to the memory.
func (c *TestContext) RequireNoLeaks(roots ...pagetrie.PPN) {
	require.Equal(c.T, uint64(len(roots)), c.Memory.InUse())
	for _, r := range roots {
		require.True(c.T, c.Memory.Allocated(r))
	}
}
