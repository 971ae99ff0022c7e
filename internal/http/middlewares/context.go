package middlewares

import (
	"context"

	"github.com/dropDatabas3/keybox/internal/security/principal"
)

type principalCtxKey struct{}
type requestIDCtxKey struct{}

// WithPrincipal inyecta el principal autenticado en el contexto del request.
// El principal es visible para todo el downstream vía GetPrincipal: no hay
// estado global ni thread-local, sólo el contexto del request.
func WithPrincipal(ctx context.Context, p *principal.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// GetPrincipal extrae el principal del contexto, o nil si el request es anónimo.
func GetPrincipal(ctx context.Context) *principal.Principal {
	if v := ctx.Value(principalCtxKey{}); v != nil {
		if p, ok := v.(*principal.Principal); ok {
			return p
		}
	}
	return nil
}

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, rid)
}

// GetRequestID extrae el request ID del contexto ("" si no hay).
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDCtxKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
