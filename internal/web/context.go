package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/datatable/internal/session"
	"github.com/go-chi/chi/v5"
)

type instanceKey struct{}

// withInstance resolves the {id} URL parameter to an open table and stores
// it in the request context. Unknown or expired ids are answered with 404.
func (s *Server) withInstance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inst, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), instanceKey{}, inst)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// instanceFrom returns the table stored by withInstance.
func instanceFrom(ctx context.Context) *session.Instance {
	inst, _ := ctx.Value(instanceKey{}).(*session.Instance)
	return inst
}
