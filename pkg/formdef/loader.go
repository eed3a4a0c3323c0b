package formdef

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches definition documents from files, an fs.FS or HTTP.
// The implementation lives in internal/loader.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS

	// HTTPClient enables URL sources with caller supplied transport settings.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is set.
	AllowHTTPFallback bool

	// RequestTimeout caps a single remote fetch.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem sets the fs.FS used for SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies options in order.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
