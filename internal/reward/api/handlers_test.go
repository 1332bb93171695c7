package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type userRewards map[string][]domain.Reward

func (u userRewards) TotalPoints(_ context.Context, userID string) (int, error) {
	total := 0
	for _, rw := range u[userID] {
		total += rw.Points
	}
	return total, nil
}

func (u userRewards) List(_ context.Context, userID string, limit, offset int) ([]domain.Reward, error) {
	return u[userID], nil
}

func TestSummaryIsScopedToCaller(t *testing.T) {
	repo := userRewards{
		"cust-1": {{ID: "r1", UserID: "cust-1", Points: 125}},
		"cust-2": {{ID: "r2", UserID: "cust-2", Points: 40}},
	}
	h := NewHandler(app.NewRewardService(repo, util.NewNop()))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), "cust-1", "customer")))
		})
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rewards", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/rewards = %d", rec.Code)
	}

	var body struct {
		Data domain.Summary `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.TotalPoints != 125 || len(body.Data.History) != 1 || body.Data.History[0].ID != "r1" {
		t.Errorf("summary = %+v", body.Data)
	}
}
