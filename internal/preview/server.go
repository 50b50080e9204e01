// Package preview serves a build directory locally with the response headers
// declared in its headers file, so a generated policy can be checked in a
// browser before publishing.
package preview

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(root string, rules []Rule) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(applyRules(rules))
	r.Handle("/*", http.FileServer(http.Dir(root)))
	return r
}

func applyRules(rules []Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			for _, rule := range rules {
				if !rule.Matches(req.URL.Path) {
					continue
				}
				for k, vs := range rule.Header {
					for _, v := range vs {
						w.Header().Add(k, v)
					}
				}
			}
			next.ServeHTTP(w, req)
		})
	}
}
