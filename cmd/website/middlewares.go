package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

/*
newRequestIDMiddleware tags each page render with a unique ID so log
lines from a single pipeline pass can be correlated. Controllers read
it back through viewmodels.GetRequestIDFromContext.
*/
func newRequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()

			w.Header().Set("X-Request-Id", id)

			ctx := context.WithValue(r.Context(), "requestID", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
