package domain

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidLink is returned when a link is absent or is not an absolute URI.
var ErrInvalidLink = errors.New("invalid or missing link")

// LinkOpener hands a validated URI to whatever can show it (a browser, an
// HTTP redirect, ...).
type LinkOpener interface {
	Open(ctx context.Context, u *url.URL) error
}

// LinkOpenerFunc adapts a function to LinkOpener.
type LinkOpenerFunc func(ctx context.Context, u *url.URL) error

// Open calls f.
func (f LinkOpenerFunc) Open(ctx context.Context, u *url.URL) error { return f(ctx, u) }

// ParseLink validates an optional link. It accepts only absolute URIs with
// both a scheme and a host.
func ParseLink(link *string) (*url.URL, error) {
	if link == nil {
		return nil, ErrInvalidLink
	}
	raw := strings.TrimSpace(*link)
	if raw == "" {
		return nil, ErrInvalidLink
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URI", ErrInvalidLink, raw)
	}
	return u, nil
}

// OpenLink validates link and passes it to opener. Nothing is opened when the
// link is missing or malformed; ErrInvalidLink is returned instead.
func OpenLink(ctx context.Context, opener LinkOpener, link *string) error {
	u, err := ParseLink(link)
	if err != nil {
		return err
	}
	if err := opener.Open(ctx, u); err != nil {
		return fmt.Errorf("failed to open link: %w", err)
	}
	return nil
}
