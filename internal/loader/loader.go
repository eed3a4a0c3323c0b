package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// Loader implements formdef.Loader by delegating to file, fs.FS or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ formdef.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options.
func New(options formdef.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		client = &clone
	case options.AllowHTTPFallback:
		client = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      client,
		allowHTTP: client != nil,
		timeout:   timeout,
	}
}

// Load fetches the payload behind src. HTML pages are reduced to the
// definition embedded in their first <pre><code> block.
func (l *Loader) Load(ctx context.Context, src formdef.Source) (formdef.Document, error) {
	if src == nil {
		return formdef.Document{}, errors.New("formdef loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case formdef.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case formdef.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case formdef.SourceKindURL:
		if !l.allowHTTP {
			return formdef.Document{}, errors.New("formdef loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("formdef loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return formdef.Document{}, fmt.Errorf("formdef loader: load %s: %w", src.Location(), err)
	}

	if looksLikeHTML(data) {
		embedded, err := ExtractDefinition(data)
		if err != nil {
			return formdef.Document{}, fmt.Errorf("formdef loader: %s: %w", src.Location(), err)
		}
		data = embedded
	}
	return formdef.NewDocument(src, data)
}
