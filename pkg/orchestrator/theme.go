package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrender/pkg/renderers/vanilla"
)

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		vanilla.PagePartial: vanilla.PageTemplate,
	}
}

// themeConfig resolves the renderer theme for req. A theme already present
// on the render options wins over the selector.
func (o *Orchestrator) themeConfig(req Request) (*theme.RendererConfig, error) {
	if req.RenderOptions.Theme != nil || o.themeSelector == nil {
		return req.RenderOptions.Theme, nil
	}
	name := req.ThemeName
	if name == "" {
		name = o.defaultTheme
	}
	variant := req.ThemeVariant
	if variant == "" {
		variant = o.defaultVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection into renderer inputs. Variant tokens,
// templates and assets override the manifest's; fallbacks fill partials the
// theme leaves out.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	tokens := map[string]string{}
	partials := map[string]string{}
	files := map[string]string{}
	prefix := ""

	for key, value := range fallbacks {
		partials[key] = value
	}
	if manifest := selection.Manifest; manifest != nil {
		merge(tokens, manifest.Tokens)
		merge(partials, manifest.Templates)
		merge(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix
		if variant, ok := manifest.Variants[selection.Variant]; ok {
			merge(tokens, variant.Tokens)
			merge(partials, variant.Templates)
			merge(files, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return assetURL(prefix, file)
		},
	}
}

func assetURL(prefix, file string) string {
	if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	return strings.TrimRight(prefix, "/") + "/" + file
}

func merge(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

// ManifestSelector selects among in-memory theme manifests.
type ManifestSelector struct {
	mu           sync.RWMutex
	manifests    map[string]*theme.Manifest
	defaultTheme string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name. defaultTheme is used when
// Select receives an empty name; it defaults to the first manifest.
func NewManifestSelector(defaultTheme string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest), defaultTheme: defaultTheme}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("orchestrator: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("orchestrator: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// Select returns the manifest for name. An unknown variant is an error; an
// empty one selects the base manifest.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("orchestrator: theme %q not found (registered: %s)", name, strings.Join(s.names(), ", "))
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("orchestrator: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (s *ManifestSelector) names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
