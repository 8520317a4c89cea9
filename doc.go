/*
Package xmldoc provides bidirectional conversion between XML text, an
in-memory ordered tree of named, attributed elements, and arbitrary Go
values. The API is designed to be familiar to Go developers, closely
mirroring the standard `encoding/json` and `encoding/xml` packages.

The package offers two workflows depending on the use case:

1. Typed Decoding and Encoding

For converting XML into Go structs (and vice versa), the Marshal and
Unmarshal functions walk a value's field shape against the document tree.
Struct tags select coding keys and attribute access:

	var data = []byte(`<server host="example.com"><port>8080</port></server>`)

	type Server struct {
		Host string `xmldoc:"host,attr"`
		Port int    `xmldoc:"port"`
	}

	var srv Server
	if err := xmldoc.Unmarshal(data, &srv); err != nil {
		// handle error
	}
	// srv is now populated with {Host: "example.com", Port: 8080}

Decoding is fail-fast: a missing key or a value that cannot be coerced to
the target kind returns a DecodeError carrying the full key path to the
failing field.

2. Document Tree Manipulation

For building, querying and rewriting documents without a target type, Parse
materializes the whole input as a Document tree. Direct lookups never fail:
a miss returns a sentinel node tagged with an error, so lookups chain
safely:

	doc, err := xmldoc.Parse(data)
	if err != nil {
		// handle error
	}

	port := doc.Root().Child("port")
	if port.Err() == nil {
		// port exists
	}

Trees built this way serialize back to canonical XML with Serialize, or to
the derived compact and space-indented forms. Subtrees without a target
shape can be projected into a generic tagged Value via Flatten.

Customization is available via struct field tags (`xmldoc:"key,attr"`,
`xmldoc:",value"`, `xmldoc:"key,omitempty"`), by implementing the Marshaler
and Unmarshaler interfaces, and through functional options such as
TrimWhitespace, InputEncoding and MaxDepth.
*/
package xmldoc
