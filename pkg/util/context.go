package util

import (
	"context"
)

type key string

const (
	requestIDKey = key("x-request-id")
	actorIDKey   = key("actor-id")
	eventIDKey   = key("event-id")
)

// FieldsFromContext extracts the key-value pairs this library sets into a context.
type FieldsFromContext struct{}

// Fields returns a map of the key-value pairs that this library has set into `context`.
func (f *FieldsFromContext) Fields(ctx context.Context) map[string]interface{} {
	mapFields := make(map[string]interface{})
	mapFields["request_id"] = GetRequestID(ctx)
	mapFields["actor_id"] = GetActorID(ctx)

	return mapFields
}

// WithActorID returns a context with an actor id
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

// WithEventID returns a context with an event id
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey, id)
}

// GetActorID returns the actor id from context
// will return empty string if not present
func GetActorID(ctx context.Context) string {
	id, _ := ctx.Value(actorIDKey).(string)
	return id
}

// GetEventID returns the event id from context
// will return empty string if not present
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}
