package formdef

import "errors"

// Document is a raw definition payload paired with its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw and rejects empty payloads.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("formdef: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("formdef: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Decode runs the payload through Decode.
func (d Document) Decode() (map[string]any, error) {
	return Decode(d.raw)
}
