package normalize

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Template kinds shipped with the package.
const (
	KindDateTimeField = "datetimefield"
	KindPageTemplate  = "pageTemplate"
)

//go:embed templates/*.yaml
var embeddedTemplates embed.FS

// EmbeddedFS returns the bundled template files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateStore holds metadata templates by kind. Values are JSON-shaped
// (maps, slices, strings, float64, bool) and handed out as deep copies.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[string]any
}

// NewTemplateStore returns an empty store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{templates: make(map[string]any)}
}

var (
	defaultOnce  sync.Once
	defaultStore *TemplateStore
	defaultErr   error
)

// DefaultStore returns the store built from the embedded templates.
func DefaultStore() (*TemplateStore, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = LoadFS(EmbeddedFS())
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultStore.Clone(), nil
}

// LoadFS reads every .json/.yaml/.yml file in fsys. Each file holds a
// top-level "templates" mapping of kind to template value. Files are tried as
// JSON first and YAML second. Duplicate kinds across files are an error.
func LoadFS(fsys fs.FS) (*TemplateStore, error) {
	store := NewTemplateStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("normalize: read %s: %w", path, err)
		}
		doc, err := parseTemplateFile(data, path)
		if err != nil {
			return err
		}
		for kind, value := range doc {
			kind = strings.TrimSpace(kind)
			if kind == "" {
				return fmt.Errorf("normalize: file %s defines an empty template kind", path)
			}
			if _, exists := store.templates[kind]; exists {
				return fmt.Errorf("normalize: duplicate template %q (file %s)", kind, path)
			}
			store.templates[kind] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

type templateFile struct {
	Templates map[string]any `json:"templates" yaml:"templates"`
}

func parseTemplateFile(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("normalize: file %s is empty", source)
	}

	var doc templateFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc.Templates, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("normalize: parse %s: invalid JSON or YAML", source)
	}

	// YAML decodes integers and nested maps differently from encoding/json;
	// round-trip so templates compare equal to decoded definitions.
	payload, err := json.Marshal(doc.Templates)
	if err != nil {
		return nil, fmt.Errorf("normalize: convert %s: %w", source, err)
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("normalize: convert %s: %w", source, err)
	}
	return out, nil
}

// Register adds or replaces a template.
func (s *TemplateStore) Register(kind string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[kind] = DeepCopy(value)
}

// Template returns a deep copy of the template for kind.
func (s *TemplateStore) Template(kind string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.templates[kind]
	if !ok {
		return nil, false
	}
	return DeepCopy(value), true
}

// Kinds lists the stored template kinds in sorted order.
func (s *TemplateStore) Kinds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kinds := make([]string, 0, len(s.templates))
	for kind := range s.templates {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Clone returns an independent copy of the store.
func (s *TemplateStore) Clone() *TemplateStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := NewTemplateStore()
	for kind, value := range s.templates {
		out.templates[kind] = DeepCopy(value)
	}
	return out
}

// DeepCopy copies JSON-shaped values. Other values are returned as is.
func DeepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = DeepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}
