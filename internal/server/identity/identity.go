// Package identity carries the authenticated caller through a request and
// decides whether that caller may touch a given resource.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized means no authenticated identity is attached to the context.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the resource exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the resource does not exist.
	ErrNotFound = errors.New("not found")
)

// contextKey type for context keys
type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified caller of a single request.
type Identity struct {
	ExpiresAt time.Time
	Subject   string
	TokenID   string
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity attached to ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Subject != ""
}

// CurrentUser returns the subject of the authenticated caller. It fails
// closed: a missing or empty identity is ErrUnauthorized, never an empty id.
func CurrentUser(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	return id.Subject, nil
}

// OwnerLookup returns the owner of resourceID without loading the resource's
// content. It returns an error matching ErrNotFound when the resource does
// not exist.
type OwnerLookup func(ctx context.Context, resourceID string) (string, error)

// Authorize checks that the caller in ctx owns resourceID.
//
// The result is nil for the owner, ErrForbidden when the resource belongs to
// someone else and ErrNotFound when it does not exist.
func Authorize(ctx context.Context, resourceID string, lookup OwnerLookup) error {
	subject, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	owner, err := lookup(ctx, resourceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up owner: %w", err)
	}

	if owner != subject {
		return ErrForbidden
	}
	return nil
}
