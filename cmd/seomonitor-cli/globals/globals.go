package globals

import (
	"context"
	"seomonitor-backend/internal/application"
)

type key struct{}

type Value struct {
	App application.App
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
