package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// WithClaims returns a context carrying the validated token claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves validated token claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// ContextAuthorizer answers approval-authority questions from the
// claims the JWT middleware placed on the request context.
type ContextAuthorizer struct{}

// NewContextAuthorizer creates an authorizer backed by request claims.
func NewContextAuthorizer() *ContextAuthorizer {
	return &ContextAuthorizer{}
}

// HasApprovalAuthority reports whether the actor holds the approver
// role. The actor must be the authenticated user; acting on behalf of
// another user is never allowed.
func (a *ContextAuthorizer) HasApprovalAuthority(ctx context.Context, actorID uuid.UUID) (bool, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false, nil
	}
	if claims.UserID != actorID.String() {
		return false, nil
	}
	return claims.HasRole(RoleApprover), nil
}
