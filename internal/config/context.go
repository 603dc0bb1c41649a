package config

import (
	"context"
	"math/rand"
	"time"
)

type contextKey string

const (
	correlationKey contextKey = "cid"
	debugKey       contextKey = "debug"
	createdKey     contextKey = "timeCreated"
)

const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SetContextCorrelationId tags ctx with a short random prefix joined to value,
// so repeated client request ids stay distinguishable in the log. The first
// call also records the time used for elapsed times in log lines.
func SetContextCorrelationId(ctx context.Context, value string) context.Context {
	prefix := make([]byte, 8)
	for i := range prefix {
		prefix[i] = chars[rand.Intn(len(chars))]
	}

	ctx = context.WithValue(ctx, correlationKey, string(prefix)+"-"+value)

	if GetContextTimeCreated(ctx) == -1 {
		ctx = context.WithValue(ctx, createdKey, time.Now().UnixNano())
	}

	return context.WithValue(ctx, debugKey, BoolValue("VITALS_DEBUG"))
}

// GetContextTimeCreated returns unix nanos, or -1 when unset
func GetContextTimeCreated(ctx context.Context) int64 {
	if v, ok := ctx.Value(createdKey).(int64); ok {
		return v
	}
	return -1
}

// AppendToContextCorrelationId narrows the id for a sub-task of the request
func AppendToContextCorrelationId(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, correlationKey, GetContextCorrelationId(ctx)+"-"+value)
}

func GetContextCorrelationId(ctx context.Context) string {
	if v, ok := ctx.Value(correlationKey).(string); ok {
		return v
	}
	return "no-id"
}

func GetContextDebug(ctx context.Context) bool {
	v, _ := ctx.Value(debugKey).(bool)
	return v
}
