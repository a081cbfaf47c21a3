package services

import "context"

type ctxKey string

const postServiceKey ctxKey = "postService"

// NewContext returns a copy of ctx carrying svc
func NewContext(ctx context.Context, svc *PostService) context.Context {
	return context.WithValue(ctx, postServiceKey, svc)
}

// FromContext returns the PostService carried by ctx, if any
func FromContext(ctx context.Context) (*PostService, bool) {
	svc, ok := ctx.Value(postServiceKey).(*PostService)
	return svc, ok && svc != nil
}
