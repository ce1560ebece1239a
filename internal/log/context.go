package log

import (
	"context"
)

type requestId struct{}

type sessionId struct{}

func RequestIDFromContext(c context.Context) string {
	id, _ := c.Value(requestId{}).(string)
	return id
}

func AttachRequestIDToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, requestId{}, id)
}

func SessionIDFromContext(c context.Context) string {
	id, _ := c.Value(sessionId{}).(string)
	return id
}

func AttachSessionIDToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, sessionId{}, id)
}
