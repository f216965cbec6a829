package interfaces

import (
	"context"
	"net/http"
)

// ApplicationContext carries one request through the controllers. Ctx is the
// transport context (a *gin.Context for HTTP).
type ApplicationContext[T any] struct {
	Ctx       any
	Context   context.Context
	Body      *T
	Keys      map[string]any
	Header    http.Header
	RequestID string
	UserAgent string
	Client    string
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	if ac.Header == nil {
		return nil
	}
	value := ac.Header.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

// RequestContext never returns nil.
func (ac *ApplicationContext[T]) RequestContext() context.Context {
	if ac.Context == nil {
		return context.Background()
	}
	return ac.Context
}
