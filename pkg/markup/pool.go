package markup

// DefaultPoolCapacity is the number of released nodes a pool keeps.
const DefaultPoolCapacity = 32

// Node is one open annotation. Nodes of the same kind form a LIFO stack
// through Previous, most recent first.
type Node struct {
	Value    string
	Mask     ModifierMask
	Previous *Node
}

// PoolStats counts pool traffic since creation.
type PoolStats struct {
	Allocated uint64 // fresh nodes handed out
	Reused    uint64 // nodes handed out from the free list
	Released  uint64 // nodes returned to the free list
	Dropped   uint64 // nodes released while the free list was full
	Free      int    // current free list length
}

// NodePool recycles nodes through a bounded free list. It is not safe for
// concurrent use.
type NodePool struct {
	free     []*Node
	capacity int
	stats    PoolStats
}

// NewNodePool returns a pool keeping at most capacity released nodes.
func NewNodePool(capacity int) *NodePool {
	if capacity < 0 {
		capacity = 0
	}
	return &NodePool{
		free:     make([]*Node, 0, capacity),
		capacity: capacity,
	}
}

// Capacity is the maximum free list length.
func (p *NodePool) Capacity() int {
	return p.capacity
}

// Stats returns a copy of the pool counters.
func (p *NodePool) Stats() PoolStats {
	s := p.stats
	s.Free = len(p.free)
	return s
}

// Acquire returns a zeroed node, reusing a released one when available.
func (p *NodePool) Acquire() *Node {
	if n := len(p.free); n > 0 {
		node := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.stats.Reused++
		return node
	}
	p.stats.Allocated++
	return &Node{}
}

// Release hands a single node back. The node must not be used afterwards.
func (p *NodePool) Release(node *Node) {
	if node == nil {
		return
	}
	*node = Node{}
	if len(p.free) >= p.capacity {
		p.stats.Dropped++
		return
	}
	p.free = append(p.free, node)
	p.stats.Released++
}

// ReleaseStack releases every node reachable from top.
func (p *NodePool) ReleaseStack(top *Node) {
	for top != nil {
		next := top.Previous
		p.Release(top)
		top = next
	}
}

// Push acquires a node holding value and mask on top of previous.
func (p *NodePool) Push(previous *Node, value string, mask ModifierMask) *Node {
	node := p.Acquire()
	node.Value = value
	node.Mask = mask
	node.Previous = previous
	return node
}

// Clone deep copies the stack under top, one pooled node per source node.
// Cloning nil yields nil.
func (p *NodePool) Clone(top *Node) *Node {
	if top == nil {
		return nil
	}
	head := p.Push(nil, top.Value, top.Mask)
	tail := head
	for src := top.Previous; src != nil; src = src.Previous {
		tail.Previous = p.Push(nil, src.Value, src.Mask)
		tail = tail.Previous
	}
	return head
}
