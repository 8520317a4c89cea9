package xmldoc

import (
	"errors"
	"fmt"
	"strings"
)

// The closed set of failure kinds surfaced by tree queries, document
// construction, and typed decoding/encoding. Match with errors.Is.
var (
	// ErrElementNotFound tags the sentinel node returned by Child when no
	// child with the requested name exists.
	ErrElementNotFound = errors.New("element not found")

	// ErrRootElementMissing tags the sentinel node returned by Document.Root
	// when the document has no root element.
	ErrRootElementMissing = errors.New("root element missing")

	// ErrParsingFailed indicates that the input could not be parsed into a
	// document tree, or that typed decoding was attempted on an empty
	// document.
	ErrParsingFailed = errors.New("parsing failed")

	// ErrKeyNotFound indicates that a required coding key resolved to no
	// child element during typed decoding.
	ErrKeyNotFound = errors.New("key not found")

	// ErrValueNotFound indicates that an element held no scalar value where
	// one was required, or that a sequence was consumed past its end.
	ErrValueNotFound = errors.New("value not found")

	// ErrTypeMismatch indicates that an element's scalar value could not be
	// coerced to the expected kind.
	ErrTypeMismatch = errors.New("type mismatch")
)

// A ParseError wraps a failure from the underlying tokenizer or from input
// decoding. It always unwraps to ErrParsingFailed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "xmldoc: " + ErrParsingFailed.Error()
	}
	return "xmldoc: " + ErrParsingFailed.Error() + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return ErrParsingFailed }

// A DecodeError reports a typed-decoding failure together with the key path
// accumulated up to the failing field, so the failure can be localized
// without re-tracing the tree.
type DecodeError struct {
	// Kind is one of ErrKeyNotFound, ErrValueNotFound or ErrTypeMismatch.
	Kind error

	// Path is the sequence of coding keys from the root to the failing field.
	Path []string

	// Expected names the kind a value failed to coerce to. Set only when
	// Kind is ErrTypeMismatch.
	Expected string
}

func (e *DecodeError) Error() string {
	path := strings.Join(e.Path, ".")
	if path == "" {
		path = "(root)"
	}
	if e.Expected != "" {
		return fmt.Sprintf("xmldoc: %s at %q: expected %s", e.Kind, path, e.Expected)
	}
	return fmt.Sprintf("xmldoc: %s at %q", e.Kind, path)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// A MarshalerError represents an error from calling a MarshalXMLDoc method.
type MarshalerError struct {
	Type string
	Err  error
}

func (e *MarshalerError) Error() string {
	return "xmldoc: error calling MarshalXMLDoc for type " + e.Type + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnmarshalerError represents an error from calling an UnmarshalXMLDoc
// or UnmarshalText method.
type UnmarshalerError struct {
	Type string
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "xmldoc: error calling custom unmarshaler for type " + e.Type + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
