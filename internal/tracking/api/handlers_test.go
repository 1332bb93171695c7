package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

func as(userID, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), userID, role)))
		})
	}
}

// Role guards reject before the service is touched, so a nil service is safe.
func TestRecyclerOnlyRoutes(t *testing.T) {
	h := NewHandler(nil, nil, util.NewNop())

	paths := []string{
		"/api/tracking",
		"/api/tracking/s-1/location",
		"/api/tracking/s-1/arrived",
		"/api/tracking/s-1/picking-up",
		"/api/tracking/s-1/complete",
	}
	for _, role := range []string{userdomain.RoleCustomer, userdomain.RoleAdmin, ""} {
		mux := http.NewServeMux()
		h.RegisterRoutes(mux, as("u-1", role))

		for _, p := range paths {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, p, nil))
			if rec.Code != http.StatusForbidden {
				t.Errorf("role %q POST %s = %d, want 403", role, p, rec.Code)
			}
		}
	}
}
