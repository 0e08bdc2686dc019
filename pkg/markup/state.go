package markup

// Annotations maps each kind to the top of its stack.
type Annotations [KindCount]*Node

// Top returns the most recent node of kind k, or nil.
func (a *Annotations) Top(k Kind) *Node {
	if k >= KindCount {
		return nil
	}
	return a[k]
}

// Stack lists the nodes of kind k from top to bottom.
func (a *Annotations) Stack(k Kind) []*Node {
	var nodes []*Node
	for n := a.Top(k); n != nil; n = n.Previous {
		nodes = append(nodes, n)
	}
	return nodes
}

// Values lists the values of kind k from top to bottom.
func (a *Annotations) Values(k Kind) []string {
	var values []string
	for n := a.Top(k); n != nil; n = n.Previous {
		values = append(values, n.Value)
	}
	return values
}

// Depth is the number of open annotations of kind k.
func (a *Annotations) Depth(k Kind) int {
	depth := 0
	for n := a.Top(k); n != nil; n = n.Previous {
		depth++
	}
	return depth
}

// Empty reports whether no kind has an open annotation.
func (a *Annotations) Empty() bool {
	for _, top := range a {
		if top != nil {
			return false
		}
	}
	return true
}

// State is the live set of annotation stacks during one segmentation pass.
type State struct {
	stacks Annotations
	pool   *NodePool
}

// NewState returns an empty state drawing nodes from pool.
func NewState(pool *NodePool) *State {
	return &State{pool: pool}
}

// Top returns the most recent node of kind k, or nil.
func (s *State) Top(k Kind) *Node {
	return s.stacks.Top(k)
}

// Depth is the number of open annotations of kind k.
func (s *State) Depth(k Kind) int {
	return s.stacks.Depth(k)
}

// Push opens an annotation of kind k.
func (s *State) Push(k Kind, value string, mask ModifierMask) {
	s.stacks[k] = s.pool.Push(s.stacks[k], value, mask)
}

// Pop closes the most recent annotation of kind k. It reports false when
// the stack is empty.
func (s *State) Pop(k Kind) bool {
	top := s.stacks[k]
	if top == nil {
		return false
	}
	s.stacks[k] = top.Previous
	s.pool.Release(top)
	return true
}

// Accepts reports whether applying tok is a valid tag event. A closing tag
// for an empty stack is not.
func (s *State) Accepts(tok Token) bool {
	if tok.Kind >= KindCount {
		return false
	}
	return !tok.Closing || s.stacks[tok.Kind] != nil
}

// Apply pushes an opening token or pops for a closing one.
func (s *State) Apply(tok Token) bool {
	if !s.Accepts(tok) {
		return false
	}
	if tok.Closing {
		return s.Pop(tok.Kind)
	}
	s.Push(tok.Kind, tok.Value, tok.Mask)
	return true
}

// Snapshot deep copies every stack. The copy is independent of later
// mutations and must be released by the caller.
func (s *State) Snapshot() Annotations {
	var snap Annotations
	for k, top := range s.stacks {
		snap[k] = s.pool.Clone(top)
	}
	return snap
}

// Drain releases every open annotation, leaving the state empty.
func (s *State) Drain() {
	for k, top := range s.stacks {
		s.pool.ReleaseStack(top)
		s.stacks[k] = nil
	}
}
