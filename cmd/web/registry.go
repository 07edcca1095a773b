package main

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// registry holds per-session state, such as the tagging workflow machine or
// the feed paginator. The state lives in process memory and does not survive
// a restart; the session cookie only carries the key.
type registry[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{items: make(map[string]T)}
}

func (r *registry[T]) get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[key]
	return item, ok
}

func (r *registry[T]) set(key string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = item
}

func (r *registry[T]) remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key)
}

// sessionID returns a stable random identifier for the current session,
// minting one on first use. The scs token itself is only assigned at commit
// time, so it cannot key the registries within the first request.
func (app *application) sessionID(r *http.Request) string {
	ctx := r.Context()
	id := app.sessionManager.GetString(ctx, sessionIDSessionKey)
	if id == "" {
		id = uuid.NewString()
		app.sessionManager.Put(ctx, sessionIDSessionKey, id)
	}
	return id
}
