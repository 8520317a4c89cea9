package xmldoc

import "fmt"

const (
	defaultMaxDepth   = 1000
	defaultVersion    = "1.0"
	defaultEncoding   = "utf-8"
	defaultStandalone = "no"
)

// options holds the configuration shared by parsing, serialization and the
// typed codec. Populated through functional Options.
type options struct {
	maxDepth int

	// Tokenizer flags.
	trimWhitespace          bool
	processNamespaces       bool
	reportNamespacePrefixes bool
	resolveExternalEntities bool
	inputEncoding           string

	// Serialization header fields.
	version    string
	encoding   string
	standalone string

	// Typed-codec settings.
	rootName string
}

func defaultOptions() options {
	return options{
		maxDepth:       defaultMaxDepth,
		trimWhitespace: true,
		version:        defaultVersion,
		encoding:       defaultEncoding,
		standalone:     defaultStandalone,
	}
}

func (o *options) apply(opts []Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// Option configures parsing, serialization or the typed codec.
type Option func(*options) error

// MaxDepth returns an Option that sets the maximum nesting depth accepted
// while building, traversing or decoding a document. This bounds native
// stack growth on pathologically nested input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("xmldoc: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// TrimWhitespace returns an Option that controls whether character data is
// trimmed of surrounding whitespace before being stored as an element value.
// Trimming is on by default.
func TrimWhitespace(trim bool) Option {
	return func(o *options) error {
		o.trimWhitespace = trim
		return nil
	}
}

// ProcessNamespaces returns an Option that controls whether element names
// keep their resolved namespace as a "namespace:local" prefix. Off by
// default: only local names are used.
func ProcessNamespaces(process bool) Option {
	return func(o *options) error {
		o.processNamespaces = process
		return nil
	}
}

// ReportNamespacePrefixes returns an Option that extends namespace
// qualification to attribute names as well. Requires ProcessNamespaces.
// Off by default.
func ReportNamespacePrefixes(report bool) Option {
	return func(o *options) error {
		o.reportNamespacePrefixes = report
		return nil
	}
}

// ResolveExternalEntities returns an Option that relaxes strict entity
// handling so references to undeclared entities pass through as literal
// text instead of failing the parse. External DTDs are never fetched.
// Off by default: unknown entity references fail with ErrParsingFailed.
func ResolveExternalEntities(resolve bool) Option {
	return func(o *options) error {
		o.resolveExternalEntities = resolve
		return nil
	}
}

// InputEncoding returns an Option that declares the text encoding of the
// raw input bytes (an IANA charset label such as "iso-8859-1"). Input is
// transcoded to UTF-8 before tokenization; an unknown label fails with
// ErrParsingFailed. Defaults to UTF-8.
func InputEncoding(label string) Option {
	return func(o *options) error {
		o.inputEncoding = label
		return nil
	}
}

// Version returns an Option that sets the version field of the serialized
// document header. Defaults to "1.0".
func Version(v string) Option {
	return func(o *options) error {
		if v == "" {
			return fmt.Errorf("xmldoc: version must not be empty")
		}
		o.version = v
		return nil
	}
}

// Encoding returns an Option that sets the encoding field of the serialized
// document header. Defaults to "utf-8".
func Encoding(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("xmldoc: encoding must not be empty")
		}
		o.encoding = name
		return nil
	}
}

// Standalone returns an Option that sets the standalone field of the
// serialized document header. Defaults to "no".
func Standalone(v string) Option {
	return func(o *options) error {
		if v != "yes" && v != "no" {
			return fmt.Errorf("xmldoc: standalone must be %q or %q", "yes", "no")
		}
		o.standalone = v
		return nil
	}
}

// RootName returns an Option that sets the root element name used by Marshal
// when encoding a value into a fresh document. Defaults to the value's type
// name.
func RootName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("xmldoc: root name must not be empty")
		}
		o.rootName = name
		return nil
	}
}
