package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRouter_AplicaMiddlewaresNaOrdem(t *testing.T) {
	var calls []string

	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	var seenRoute string
	rt := New(
		WithRouteMiddleware(func(route Route) func(http.Handler) http.Handler {
			seenRoute = route.Path
			return tag("rota")
		}),
		WithRoutes(Route{
			Path:   "/v1/register/:id/close",
			Method: http.MethodPost,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, "handler:"+httprouter.ParamsFromContext(r.Context()).ByName("id"))
			}),
			Middlewares: []func(http.Handler) http.Handler{tag("primeiro"), tag("segundo")},
		}),
	)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/register/ABC/close", nil))

	assert.Equal(t, "/v1/register/:id/close", seenRoute)
	assert.Equal(t, []string{"rota", "primeiro", "segundo", "handler:ABC"}, calls)
}
