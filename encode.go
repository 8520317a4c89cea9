package xmldoc

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"sort"
)

// Marshaler is the interface implemented by types that can encode
// themselves as an element subtree. The returned node's value, attributes
// and children are grafted onto the element being built; its name is
// replaced by the enclosing coding key.
type Marshaler interface {
	MarshalXMLDoc() (*Node, error)
}

// Encoder writes XML documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the XML encoding of v to the stream, followed by a newline.
func (e *Encoder) Encode(v any) error {
	data, err := Marshal(v, e.opts...)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(data, '\n'))
	return err
}

// Marshal encodes v into a fresh document and returns its serialized form.
// The root element is named after v's type unless overridden with the
// RootName option. Struct fields are visited in declaration order; scalars
// and nested structs become one child element each, slices become N
// same-named children, and `attr`-tagged fields become attributes of the
// enclosing element.
func Marshal(v any, opts ...Option) ([]byte, error) {
	doc, err := MarshalDocument(v, opts...)
	if err != nil {
		return nil, err
	}
	return []byte(doc.Serialize()), nil
}

// MarshalDocument encodes v into a fresh document and returns the document
// itself, for callers that want to adjust the tree before serializing.
func MarshalDocument(v any, opts ...Option) (*Document, error) {
	o := defaultOptions()
	if err := o.apply(opts); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(v)
	name := o.rootName
	if name == "" {
		name = rootNameFor(rv)
	}

	doc := &Document{node: &Node{}, opts: o}
	root := doc.node.AddChild(NewNode(name))

	es := &encodeState{depth: o.maxDepth}
	es.stack.push(frame{kind: frameKeyed, node: root})
	defer es.stack.pop()
	if err := es.encodeValue(rv); err != nil {
		return nil, fmt.Errorf("xmldoc: %w", err)
	}
	return doc, nil
}

// rootNameFor derives a root element name from a value's type.
func rootNameFor(rv reflect.Value) string {
	if !rv.IsValid() {
		return "root"
	}
	t := rv.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return "root"
}

type encodeState struct {
	stack containerStack
	depth int
}

// encodeValue writes v's content into the node at the top of the container
// stack.
func (es *encodeState) encodeValue(rv reflect.Value) error {
	es.depth--
	if es.depth <= 0 {
		return fmt.Errorf("reached max recursion depth")
	}
	defer func() { es.depth++ }()

	node := es.stack.top().node

	if !rv.IsValid() {
		return nil
	}

	handled, err := es.tryCustomMarshal(node, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	if rv.Type() == valueType {
		projectValue(node, rv.Interface().(Value))
		return nil
	}

	switch rv.Kind() {
	case reflect.Struct:
		return es.encodeStruct(node, rv)
	case reflect.Map:
		return es.encodeMap(node, rv)
	case reflect.Slice, reflect.Array:
		// A bare sequence is wrapped the way the generic projection wraps
		// list elements.
		return es.encodeSequence(node, itemElementName, rv)
	default:
		s, ok := formatScalar(rv)
		if !ok {
			return fmt.Errorf("unsupported type for marshaling: %s", rv.Type())
		}
		node.SetValue(s)
		return nil
	}
}

// tryCustomMarshal attempts a Marshaler or encoding.TextMarshaler
// implementation on rv, checking both the value and a pointer to it to
// cover value and pointer receivers.
func (es *encodeState) tryCustomMarshal(node *Node, rv reflect.Value) (bool, error) {
	candidates := []reflect.Value{rv}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() {
		candidates = append(candidates, rv.Addr())
	}
	for _, c := range candidates {
		if !c.CanInterface() {
			continue
		}
		if c.Kind() == reflect.Pointer && c.IsNil() {
			continue
		}
		if m, ok := c.Interface().(Marshaler); ok {
			sub, err := m.MarshalXMLDoc()
			if err != nil {
				return true, &MarshalerError{Type: c.Type().String(), Err: err}
			}
			graft(node, sub)
			return true, nil
		}
		if m, ok := c.Interface().(encoding.TextMarshaler); ok {
			text, err := m.MarshalText()
			if err != nil {
				return true, &MarshalerError{Type: c.Type().String(), Err: err}
			}
			node.SetValue(string(text))
			return true, nil
		}
	}
	return false, nil
}

// graft moves src's value, attributes and children onto dst, keeping dst's
// name.
func graft(dst, src *Node) {
	if src == nil {
		return
	}
	if v, ok := src.Value(); ok {
		dst.SetValue(v)
	}
	for k, v := range src.Attrs() {
		dst.SetAttr(k, v)
	}
	for len(src.Children()) > 0 {
		dst.AddChild(src.Children()[0])
	}
}

func (es *encodeState) encodeStruct(node *Node, rv reflect.Value) error {
	for _, f := range cachedFields(rv.Type()) {
		fv := rv.FieldByIndex(f.idx)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}

		if f.attr {
			target := fv
			for target.Kind() == reflect.Pointer || target.Kind() == reflect.Interface {
				if target.IsNil() {
					target = reflect.Value{}
					break
				}
				target = target.Elem()
			}
			if !target.IsValid() {
				continue
			}
			s, ok := formatScalar(target)
			if !ok {
				return fmt.Errorf("unsupported attribute type for field %s: %s", f.name, target.Type())
			}
			node.SetAttr(f.name, s)
			continue
		}

		if f.isValue {
			if err := es.encodeValue(fv); err != nil {
				return err
			}
			continue
		}

		shape := fv.Type()
		for shape.Kind() == reflect.Pointer {
			shape = shape.Elem()
		}
		if shape.Kind() == reflect.Slice || shape.Kind() == reflect.Array {
			seq := fv
			for seq.Kind() == reflect.Pointer {
				if seq.IsNil() {
					seq = reflect.Value{}
					break
				}
				seq = seq.Elem()
			}
			if !seq.IsValid() {
				continue
			}
			if err := es.encodeSequence(node, f.name, seq); err != nil {
				return err
			}
			continue
		}

		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		if err := es.encodeChild(node, f.name, fv); err != nil {
			return err
		}
	}
	return nil
}

// encodeSequence appends one same-named child per sequence element, in
// order.
func (es *encodeState) encodeSequence(node *Node, name string, rv reflect.Value) error {
	for i := 0; i < rv.Len(); i++ {
		if err := es.encodeChild(node, name, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// encodeMap appends one child per key, sorted for deterministic output.
func (es *encodeState) encodeMap(node *Node, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("map key type must be a string, got %s", rv.Type().Key())
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := es.encodeChild(node, k, rv.MapIndex(reflect.ValueOf(k))); err != nil {
			return err
		}
	}
	return nil
}

// encodeChild appends a child element and encodes rv into it, pairing the
// frame push with a pop on every exit path.
func (es *encodeState) encodeChild(node *Node, name string, rv reflect.Value) error {
	child := node.AddChild(NewNode(name))
	es.stack.push(frame{kind: frameKeyed, node: child})
	defer es.stack.pop()
	return es.encodeValue(rv)
}

// projectValue writes a generic Value into a node using the same rules as
// the tree projection methods.
func projectValue(node *Node, v Value) {
	switch v.Kind() {
	case KindScalar:
		node.SetValue(v.Scalar())
	case KindMap:
		node.AddChildrenFromMap(v)
	case KindList:
		addListItems(node, v)
	}
}

// isEmptyValue reports whether the value v is empty for omitempty purposes.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
