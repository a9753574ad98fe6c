package core

import "context"

type requestMetaKey struct{}

// RequestMeta identifies the client behind a mutation for the audit log.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches client metadata to ctx.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the metadata attached by WithRequestMeta, or the zero value.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	if m, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return m
	}
	return RequestMeta{}
}
