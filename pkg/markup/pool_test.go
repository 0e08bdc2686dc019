package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodePoolAcquireRelease(t *testing.T) {
	pool := NewNodePool(2)

	a := pool.Acquire()
	a.Value = "a"
	pool.Release(a)

	b := pool.Acquire()
	assert.Same(t, a, b, "released node should be reused")
	assert.Equal(t, Node{}, *b, "reused node should be zeroed")

	stats := pool.Stats()
	assert.Equal(t, uint64(1), stats.Allocated)
	assert.Equal(t, uint64(1), stats.Reused)
	assert.Equal(t, 0, stats.Free)
}

func TestNodePoolBoundedFreeList(t *testing.T) {
	pool := NewNodePool(2)
	nodes := []*Node{pool.Acquire(), pool.Acquire(), pool.Acquire()}
	for _, n := range nodes {
		pool.Release(n)
	}

	stats := pool.Stats()
	assert.Equal(t, 2, stats.Free)
	assert.Equal(t, uint64(2), stats.Released)
	assert.Equal(t, uint64(1), stats.Dropped)

	pool.Release(nil)
	assert.Equal(t, 2, pool.Stats().Free)
}

func TestNodePoolZeroCapacity(t *testing.T) {
	pool := NewNodePool(-1)
	assert.Equal(t, 0, pool.Capacity())
	pool.Release(pool.Acquire())
	assert.Equal(t, 0, pool.Stats().Free)
}

func TestNodePoolClone(t *testing.T) {
	pool := NewNodePool(DefaultPoolCapacity)

	t.Run("nil yields nil", func(t *testing.T) {
		assert.Nil(t, pool.Clone(nil))
	})

	t.Run("deep copy is independent of the original", func(t *testing.T) {
		var top *Node
		top = pool.Push(top, "red", 0)
		top = pool.Push(top, "blue", MaskOf(ModShift))
		top = pool.Push(top, "green", MaskOf(ModTop, ModLeft))

		clone := pool.Clone(top)
		require.NotNil(t, clone)
		for src, dst := top, clone; src != nil; src, dst = src.Previous, dst.Previous {
			assert.NotSame(t, src, dst)
		}

		pool.ReleaseStack(top)

		var got []Node
		for n := clone; n != nil; n = n.Previous {
			got = append(got, Node{Value: n.Value, Mask: n.Mask})
		}
		assert.Equal(t, []Node{
			{Value: "green", Mask: MaskOf(ModTop, ModLeft)},
			{Value: "blue", Mask: MaskOf(ModShift)},
			{Value: "red"},
		}, got)

		// Reusing the released nodes must not disturb the clone either.
		for i := 0; i < 3; i++ {
			n := pool.Acquire()
			n.Value = "scribble"
		}
		assert.Equal(t, "green", clone.Value)
		assert.Equal(t, "red", clone.Previous.Previous.Value)
	})
}
