// Package identity carries the authenticated requester through a request context.
// Identity is established upstream by the auth gateway; this service only reads it.
package identity

import (
	"context"

	"clinicbook/pkg/model"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type Requester struct {
	ID   string
	Role model.Role
}

func (r Requester) IsAdmin() bool {
	return r.Role == model.RoleAdmin
}

func (r Requester) IsProvider() bool {
	return r.Role == model.RoleProvider
}

type contextKey struct{}

func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

func FromContext(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(contextKey{}).(Requester)
	return r, ok && r.ID != ""
}
