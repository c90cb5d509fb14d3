// Package requestid stamps every inbound HTTP request with a correlation
// id, the way sonpython-slether hands each websocket connection a
// uuid.New().String() identity — here reused as a per-request id for log
// correlation in the HTTP API. The /ws and /mcp endpoints do not go through
// this middleware.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey int

const idKey contextKey = 0

// Header is the name of the response/request header carrying the id.
const Header = "X-Request-Id"

// Middleware assigns a fresh request id to any request that doesn't already
// carry one, stores it in the request context, and echoes it back in the
// response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		ctx := context.WithValue(r.Context(), idKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request id stored by Middleware, or "" if none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(idKey).(string)
	return id
}
