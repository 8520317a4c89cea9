package xmldoc

type frameKind int

const (
	// frameScalar marks a position holding a single value-bearing node.
	frameScalar frameKind = iota

	// frameKeyed marks a keyed view over one node's children and attributes.
	frameKeyed

	// frameSequence marks a cursor over a name-grouped sibling set, consumed
	// in document order.
	frameSequence
)

// frame is one position marker in the tree being decoded from or encoded
// into.
type frame struct {
	kind   frameKind
	node   *Node
	seq    []*Node
	cursor int
}

// next advances a sequence frame's cursor and returns the element it passed
// over. Advancing past the end is a boundary condition reported as
// ErrValueNotFound, never silent truncation.
func (f *frame) next() (*Node, bool) {
	if f.cursor >= len(f.seq) {
		return nil, false
	}
	n := f.seq[f.cursor]
	f.cursor++
	return n, true
}

// containerStack tracks the codec's current position while walking a
// record's shape against a tree. Only the top frame is accessible; its
// depth always equals the current decode or encode nesting depth because
// every push is paired with a deferred pop on all exit paths.
type containerStack struct {
	frames []frame
}

// push appends a frame. Callers reach the pushed frame through top rather
// than a retained pointer, since later pushes may relocate the backing
// array.
func (s *containerStack) push(f frame) {
	s.frames = append(s.frames, f)
}

func (s *containerStack) pop() {
	if len(s.frames) == 0 {
		panic("xmldoc: pop of empty container stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// top returns the current frame. An empty stack here is a logic error in
// the codec, never an input-driven condition, so it panics.
func (s *containerStack) top() *frame {
	if len(s.frames) == 0 {
		panic("xmldoc: access of empty container stack")
	}
	return &s.frames[len(s.frames)-1]
}

func (s *containerStack) depth() int { return len(s.frames) }
