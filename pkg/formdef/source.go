package formdef

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a form definition came from. Loaders switch on Kind
// and read Location; nothing else about the origin leaks into the engine.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile points at a definition on disk.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS names an entry inside an fs.FS supplied to the loader.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// ParseURLSource validates raw as an absolute request URI.
func ParseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("formdef: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("formdef: invalid URL %q: %w", raw, err)
	}
	return source{kind: SourceKindURL, location: raw}, nil
}

// SourceFromURL is ParseURLSource that panics on bad input, for wiring code
// where the URL is a constant.
func SourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err)
	}
	return src
}
