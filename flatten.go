package xmldoc

// ValueKind discriminates the variants of a generic Value.
type ValueKind int

const (
	// KindScalar is a plain string value.
	KindScalar ValueKind = iota

	// KindList is an ordered sequence of values.
	KindList

	// KindMap is an ordered mapping of string keys to values.
	KindMap
)

// Value is a tagged variant holding a scalar string, a list of values, or
// an ordered string-keyed mapping. It is the result type of Flatten and the
// input type of the generic tree projection.
type Value struct {
	kind   ValueKind
	scalar string
	list   []Value
	obj    *orderedMap
}

type orderedMap struct {
	keys []string
	vals map[string]Value
}

// NewScalar returns a scalar Value.
func NewScalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// NewList returns a list Value holding the given elements in order.
func NewList(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// NewMap returns an empty map Value. Keys inserted with Set keep their
// insertion order.
func NewMap() Value {
	return Value{kind: KindMap, obj: &orderedMap{vals: make(map[string]Value)}}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Scalar returns the scalar string for a scalar Value, or "".
func (v Value) Scalar() string { return v.scalar }

// List returns the element sequence for a list Value, or nil.
func (v Value) List() []Value { return v.list }

// Keys returns a map Value's keys in insertion order, or nil.
func (v Value) Keys() []string {
	if v.obj == nil {
		return nil
	}
	return v.obj.keys
}

// Get returns the value stored under key in a map Value.
func (v Value) Get(key string) (Value, bool) {
	if v.obj == nil {
		return Value{}, false
	}
	val, ok := v.obj.vals[key]
	return val, ok
}

// Set stores val under key in a map Value, keeping first-insertion key
// order. Calling Set on a non-map Value is a programming error and panics.
func (v Value) Set(key string, val Value) {
	if v.kind != KindMap || v.obj == nil {
		panic("xmldoc: Set on non-map Value")
	}
	if _, ok := v.obj.vals[key]; !ok {
		v.obj.keys = append(v.obj.keys, key)
	}
	v.obj.vals[key] = val
}

// Flatten projects the node's children into a generic map Value for
// non-typed consumption. Per group of same-named children: a lone child
// carrying a scalar value flattens to that scalar; a group whose members
// have children flattens to a list, either of each member's own flattened
// mapping (when no grandchild carries a scalar value) or of the
// grandchildren's scalar values. The presence of sub-children anywhere in a
// group forces list/mapping treatment over plain scalar treatment.
//
// The projection is a heuristic, not a bijection: same-named children of
// different shapes do not round-trip losslessly.
func (n *Node) Flatten() Value {
	out := NewMap()
	seen := make(map[string]bool)
	for _, c := range n.children {
		if seen[c.name] {
			continue
		}
		seen[c.name] = true
		group := groupNamed(n, c.name)
		out.Set(c.name, flattenGroup(group))
	}
	return out
}

func groupNamed(parent *Node, name string) []*Node {
	var out []*Node
	for _, c := range parent.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func flattenGroup(group []*Node) Value {
	anyChildren := false
	for _, g := range group {
		if len(g.children) > 0 {
			anyChildren = true
			break
		}
	}

	if !anyChildren {
		if len(group) == 1 {
			v, _ := group[0].Value()
			return NewScalar(v)
		}
		elems := make([]Value, 0, len(group))
		for _, g := range group {
			v, _ := g.Value()
			elems = append(elems, NewScalar(v))
		}
		return NewList(elems...)
	}

	// Sub-children exist somewhere in the group: if any grandchild carries a
	// scalar value the group flattens to those values, otherwise to each
	// member's own flattened mapping.
	var scalars []Value
	for _, g := range group {
		for _, gc := range g.children {
			if v, ok := gc.Value(); ok {
				scalars = append(scalars, NewScalar(v))
			}
		}
	}
	if len(scalars) > 0 {
		return NewList(scalars...)
	}

	var maps []Value
	for _, g := range group {
		if len(g.children) > 0 {
			maps = append(maps, g.Flatten())
		}
	}
	return NewList(maps...)
}

// itemElementName wraps list elements projected into the tree.
const itemElementName = "Item"

// AddChildrenFromMap projects a map Value onto the node as children: each
// scalar entry becomes a named child with that value, each map entry a
// named child built recursively, and each list entry a named child wrapping
// its elements as Item sub-elements. Projection shares AddChild's attach
// semantics. Non-map values are ignored.
func (n *Node) AddChildrenFromMap(v Value) {
	if v.Kind() != KindMap {
		return
	}
	for _, key := range v.Keys() {
		entry, _ := v.Get(key)
		switch entry.Kind() {
		case KindScalar:
			n.AddElement(key, entry.Scalar(), nil)
		case KindMap:
			child := n.AddChild(NewNode(key))
			child.AddChildrenFromMap(entry)
		case KindList:
			n.AddListElement(key, entry)
		}
	}
}

// AddListElement attaches a child with the given name holding the list's
// elements, each wrapped as an Item sub-element: scalars are stringified,
// nested maps and lists recurse.
func (n *Node) AddListElement(name string, list Value) *Node {
	child := n.AddChild(NewNode(name))
	addListItems(child, list)
	return child
}

func addListItems(n *Node, list Value) {
	if list.Kind() != KindList {
		return
	}
	for _, elem := range list.List() {
		switch elem.Kind() {
		case KindScalar:
			n.AddElement(itemElementName, elem.Scalar(), nil)
		case KindMap:
			item := n.AddChild(NewNode(itemElementName))
			item.AddChildrenFromMap(elem)
		case KindList:
			n.AddListElement(itemElementName, elem)
		}
	}
}
