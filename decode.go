package xmldoc

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
)

// Unmarshaler is the interface implemented by types that can decode
// themselves from an element subtree.
type Unmarshaler interface {
	UnmarshalXMLDoc(n *Node) error
}

// Decoder reads and decodes XML documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options can be provided to configure parsing and decoding,
// such as setting a maximum nesting depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the XML document from its input and stores the decoded
// result in the value pointed to by v. If v is nil or not a pointer, Decode
// returns an error.
//
// Note: this is a non-streaming implementation. The whole document is
// materialized as a tree before typed decoding begins.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("xmldoc: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	return Unmarshal(data, v, d.opts...)
}

// Unmarshal parses the XML-encoded data and stores the result in the value
// pointed to by v, walking v's field shape against the document tree.
//
// Struct fields are resolved to child elements through the field name or an
// `xmldoc:"name"` tag. The tag options `attr` (read an attribute of the
// enclosing element), `value` (read the enclosing element's own text) and
// `-` (skip) are recognized. Slice and array fields consume same-named
// sibling elements in document order.
func Unmarshal(data []byte, v any, opts ...Option) error {
	o := defaultOptions()
	if err := o.apply(opts); err != nil {
		return err
	}

	doc, err := Parse(data, opts...)
	if err != nil {
		return err
	}
	return decodeDocument(doc, v, &o)
}

func decodeDocument(doc *Document, v any, o *options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("xmldoc: Unmarshal(non-pointer %T or nil)", v)
	}
	root := doc.Root()
	if root.Err() != nil {
		return &ParseError{Err: root.Err()}
	}

	ds := &decodeState{depth: o.maxDepth}
	ds.stack.push(frame{kind: frameKeyed, node: root})
	defer ds.stack.pop()
	return ds.decodeValue(rv.Elem())
}

type decodeState struct {
	stack containerStack
	path  []string
	depth int
}

func (ds *decodeState) pushKey(key string) { ds.path = append(ds.path, key) }
func (ds *decodeState) popKey()            { ds.path = ds.path[:len(ds.path)-1] }

func (ds *decodeState) fail(kind error) error {
	return &DecodeError{Kind: kind, Path: append([]string(nil), ds.path...)}
}

func (ds *decodeState) failMismatch(expected string) error {
	return &DecodeError{Kind: ErrTypeMismatch, Path: append([]string(nil), ds.path...), Expected: expected}
}

// decodeValue decodes the node at the top of the container stack into rv.
func (ds *decodeState) decodeValue(rv reflect.Value) error {
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("xmldoc: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	node := ds.stack.top().node

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	handled, err := ds.tryCustomUnmarshal(node, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(genericValue(node)))
		return nil
	}
	if rv.Kind() == reflect.Interface {
		return ds.decodeInterface(node, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("xmldoc: cannot set value of type %s", rv.Type())
	}

	switch rv.Kind() {
	case reflect.Struct:
		return ds.decodeStruct(node, rv)
	case reflect.Map:
		return ds.decodeMap(node, rv)
	case reflect.Slice, reflect.Array:
		return ds.decodeSequence(siblingGroup(node), rv)
	default:
		return ds.decodeScalar(node, rv)
	}
}

var valueType = reflect.TypeOf(Value{})

// tryCustomUnmarshal attempts an Unmarshaler or encoding.TextUnmarshaler
// implementation on rv. It reports whether a custom unmarshaler ran, in
// which case default decoding must not proceed.
func (ds *decodeState) tryCustomUnmarshal(node *Node, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalXMLDoc(node); err != nil {
			return true, &UnmarshalerError{Type: pv.Type().String(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		text, found := node.Value()
		if !found {
			return true, ds.fail(ErrValueNotFound)
		}
		if err := u.UnmarshalText([]byte(text)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type().String(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) decodeScalar(node *Node, rv reflect.Value) error {
	text, found := node.Value()
	if !found {
		return ds.fail(ErrValueNotFound)
	}
	if expected, ok := coerceScalar(text, rv); !ok {
		return ds.failMismatch(expected)
	}
	return nil
}

func (ds *decodeState) decodeStruct(node *Node, rv reflect.Value) error {
	for _, f := range cachedFields(rv.Type()) {
		fv := rv.FieldByIndex(f.idx)
		if !fv.IsValid() || !fv.CanSet() {
			continue
		}
		ds.pushKey(f.name)
		err := ds.decodeField(node, f, fv)
		ds.popKey()
		if err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) decodeField(node *Node, f field, fv reflect.Value) error {
	if f.isValue {
		if _, ok := node.Value(); !ok && fv.Kind() == reflect.Pointer {
			return nil
		}
		return ds.decodeInFrame(frame{kind: frameScalar, node: node}, fv)
	}

	if f.attr {
		val, ok := node.Attr(f.name)
		if !ok {
			if fv.Kind() == reflect.Pointer {
				return nil
			}
			return ds.fail(ErrKeyNotFound)
		}
		target := fv
		for target.Kind() == reflect.Pointer {
			if target.IsNil() {
				target.Set(reflect.New(target.Type().Elem()))
			}
			target = target.Elem()
		}
		if expected, ok := coerceScalar(val, target); !ok {
			return ds.failMismatch(expected)
		}
		return nil
	}

	shape := fv.Type()
	for shape.Kind() == reflect.Pointer {
		shape = shape.Elem()
	}

	if shape.Kind() == reflect.Slice || shape.Kind() == reflect.Array {
		group := ds.lookupGroup(node, f.name)
		if len(group) == 0 && shape.Kind() == reflect.Slice {
			// A sequence of zero elements is valid; the slice stays nil.
			return nil
		}
		target := fv
		for target.Kind() == reflect.Pointer {
			if target.IsNil() {
				target.Set(reflect.New(target.Type().Elem()))
			}
			target = target.Elem()
		}
		return ds.decodeSequence(group, target)
	}

	child := ds.lookup(node, f.name)
	if child.Err() != nil {
		if fv.Kind() == reflect.Pointer {
			return nil
		}
		return ds.fail(ErrKeyNotFound)
	}
	kind := frameKeyed
	if isScalarKind(shape.Kind()) {
		kind = frameScalar
	}
	return ds.decodeInFrame(frame{kind: kind, node: child}, fv)
}

// decodeInFrame runs decodeValue with f pushed, pairing the push with a pop
// on every exit path.
func (ds *decodeState) decodeInFrame(f frame, rv reflect.Value) error {
	ds.stack.push(f)
	defer ds.stack.pop()
	return ds.decodeValue(rv)
}

// decodeSequence consumes a name-grouped sibling set in document order
// through a sequence frame's cursor. Fixed-size array targets that advance
// past the available elements fail with a boundary error rather than
// truncating silently.
func (ds *decodeState) decodeSequence(group []*Node, rv reflect.Value) error {
	ds.stack.push(frame{kind: frameSequence, seq: group})
	defer ds.stack.pop()

	n := len(group)
	if rv.Kind() == reflect.Slice {
		rv.Set(reflect.MakeSlice(rv.Type(), n, n))
	} else {
		if len(group) > rv.Len() {
			return fmt.Errorf("xmldoc: cannot unmarshal %d elements into Go array of length %d", len(group), rv.Len())
		}
		n = rv.Len()
	}

	elemKind := frameKeyed
	et := rv.Type().Elem()
	for et.Kind() == reflect.Pointer {
		et = et.Elem()
	}
	if isScalarKind(et.Kind()) {
		elemKind = frameScalar
	}

	for i := 0; i < n; i++ {
		elem, ok := ds.stack.top().next()
		if !ok {
			return ds.fail(ErrValueNotFound)
		}
		if err := ds.decodeInFrame(frame{kind: elemKind, node: elem}, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) decodeMap(node *Node, rv reflect.Value) error {
	mt := rv.Type()
	if mt.Key().Kind() != reflect.String {
		return fmt.Errorf("xmldoc: cannot unmarshal element into map with non-string key type %s", mt.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mt))
	}
	// Repeated names overwrite; use a slice field to collect repeats.
	for _, child := range node.Children() {
		ds.pushKey(child.Name())
		elem := reflect.New(mt.Elem()).Elem()
		kind := frameKeyed
		if isScalarKind(mt.Elem().Kind()) {
			kind = frameScalar
		}
		err := ds.decodeInFrame(frame{kind: kind, node: child}, elem)
		ds.popKey()
		if err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(child.Name()), elem)
	}
	return nil
}

func (ds *decodeState) decodeInterface(node *Node, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("xmldoc: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	rv.Set(reflect.ValueOf(genericValue(node)))
	return nil
}

// genericValue is the untargeted projection of a node: its text for a leaf
// element, its flattened mapping otherwise.
func genericValue(node *Node) Value {
	if len(node.Children()) == 0 {
		text, _ := node.Value()
		return NewScalar(text)
	}
	return node.Flatten()
}

// lookup resolves a coding key to the first matching child, with a
// case-insensitive fallback after an exact miss.
func (ds *decodeState) lookup(node *Node, name string) *Node {
	child := node.Child(name)
	if child.Err() == nil {
		return child
	}
	for _, c := range node.Children() {
		if strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return child
}

// lookupGroup resolves a coding key to the full same-named sibling set in
// document order.
func (ds *decodeState) lookupGroup(node *Node, name string) []*Node {
	child := ds.lookup(node, name)
	if child.Err() != nil {
		return nil
	}
	return child.All()
}

// siblingGroup is the sequence a node stands for when decoded directly as a
// sequence: its same-named siblings, or just itself when detached.
func siblingGroup(node *Node) []*Node {
	if all := node.All(); len(all) > 0 {
		return all
	}
	return []*Node{node}
}

// A field describes one struct field's coding key and tag options.
type field struct {
	name      string
	idx       []int
	attr      bool
	isValue   bool
	omitEmpty bool
}

// fieldCache caches each struct type's field list.
var fieldCache sync.Map // map[reflect.Type][]field

// cachedFields returns the fields of t in declaration order, embedded
// structs flattened. The result is cached to avoid repeated reflection
// work.
func cachedFields(t reflect.Type) []field {
	if f, ok := fieldCache.Load(t); ok {
		if fields, ok := f.([]field); ok {
			return fields
		}
	}

	var fields []field
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, append(append([]int(nil), idx...), i))
				continue
			}
			if !sf.IsExported() {
				continue
			}

			tag := sf.Tag.Get("xmldoc")
			if tag == "-" {
				continue
			}
			name, opts := parseTag(tag)
			if name == "" {
				name = sf.Name
			}

			fields = append(fields, field{
				name:      name,
				idx:       append(append([]int(nil), idx...), i),
				attr:      opts["attr"],
				isValue:   opts["value"],
				omitEmpty: opts["omitempty"],
			})
		}
	}
	walk(t, nil)

	fieldCache.Store(t, fields)
	return fields
}

// parseTag splits an xmldoc struct tag into its name and options.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	options := make(map[string]bool)
	for _, part := range parts[1:] {
		options[strings.TrimSpace(part)] = true
	}
	return name, options
}
