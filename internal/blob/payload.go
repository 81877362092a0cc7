package blob

import (
	"fmt"
	"strings"
)

// Kind discriminates how an image payload string should be interpreted.
type Kind string

const (
	KindDataURL Kind = "dataUrl"
	KindBase64  Kind = "base64"
	KindURI     Kind = "uri"
)

// Payload is a client-supplied image in one of three encodings.
type Payload struct {
	Kind  Kind
	Value string
}

// NewPayload builds a Payload from an explicit kind chosen by the caller.
func NewPayload(kind, value string) (Payload, error) {
	switch Kind(kind) {
	case KindDataURL, KindBase64, KindURI:
		return Payload{Kind: Kind(kind), Value: value}, nil
	default:
		return Payload{}, fmt.Errorf("unknown payload kind %q", kind)
	}
}

// Classify maps a raw payload string onto a Payload deterministically:
// a "data:" prefix means a data URL, an http(s) scheme means a remote URI,
// anything else is taken as bare base64. Callers that know the encoding
// should pass an explicit kind instead.
func Classify(s string) Payload {
	switch {
	case strings.HasPrefix(s, "data:"):
		return Payload{Kind: KindDataURL, Value: s}
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return Payload{Kind: KindURI, Value: s}
	default:
		return Payload{Kind: KindBase64, Value: s}
	}
}
