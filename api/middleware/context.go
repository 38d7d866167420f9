package middleware

import (
	"context"

	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/outbox"
)

type contextKey string

const (
	ctxSubject contextKey = "subject"
	ctxRole    contextKey = "actor_role"
	ctxTokenID contextKey = "token_id"
)

// SubjectFromContext returns the admin username or the collaborator id.
func SubjectFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxSubject)
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

// TokenIDFromContext returns the jti bound to the caller's session.
func TokenIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxTokenID)
}

// ActorFromContext builds the actor passed to services and recorded on
// outbox events. Nil for unauthenticated requests.
func ActorFromContext(ctx context.Context) *outbox.ActorRef {
	subject := SubjectFromContext(ctx)
	if subject == "" {
		return nil
	}
	return &outbox.ActorRef{Subject: subject, Role: RoleFromContext(ctx)}
}

// WithActor injects an authenticated principal into ctx.
func WithActor(ctx context.Context, subject string, role enums.Role, tokenID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSubject, subject)
	ctx = context.WithValue(ctx, ctxRole, string(role))
	return context.WithValue(ctx, ctxTokenID, tokenID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
