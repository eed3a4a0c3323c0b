package render

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// Session is the per-render state shared by all goroutines of one top-level
// render. It replaces process-wide slots with a value owned by the caller.
type Session struct {
	ID string

	mu      sync.Mutex
	captcha *formdef.Field
}

// NewSession creates a session with a random identifier.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// SetCaptcha records the form's CAPTCHA field. A form holds at most one;
// a second assignment fails with ErrDuplicateCaptcha.
func (s *Session) SetCaptcha(field *formdef.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captcha != nil && s.captcha != field {
		return &CaptchaError{First: s.captcha.ID, Second: field.ID}
	}
	s.captcha = field
	return nil
}

// Captcha returns the recorded CAPTCHA field, or nil.
func (s *Session) Captcha() *formdef.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captcha
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

func ensureSession(ctx context.Context) (context.Context, *Session) {
	if s, ok := SessionFrom(ctx); ok {
		return ctx, s
	}
	s := NewSession()
	return WithSession(ctx, s), s
}
