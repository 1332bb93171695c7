package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/maps"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	trackingdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*maps.Place, error)
}

type Handler struct {
	estimator *trackingdomain.Estimator
	geocoder  Geocoder
}

// NewHandler accepts a nil geocoder; geocoding then answers 503.
func NewHandler(estimator *trackingdomain.Estimator, geocoder Geocoder) *Handler {
	return &Handler{estimator: estimator, geocoder: geocoder}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/maps/eta", auth(http.HandlerFunc(h.ETA)))
	mux.Handle("GET /api/maps/geocode", auth(http.HandlerFunc(h.Geocode)))
}

func (h *Handler) ETA(w http.ResponseWriter, r *http.Request) {
	from, ok, err := util.QueryLatLng(r, "from")
	if err == nil && !ok {
		err = fmt.Errorf("%w: from is required", apperrors.ErrValidation)
	}
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	to, ok, err := util.QueryLatLng(r, "to")
	if err == nil && !ok {
		err = fmt.Errorf("%w: to is required", apperrors.ErrValidation)
	}
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	util.ResponseInJson(w, http.StatusOK, h.estimator.Estimate(ctx, from, to), "")
}

func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	if h.geocoder == nil {
		util.ErrResponseInJson(w, fmt.Errorf("geocoding: %w", apperrors.ErrUnavailable))
		return
	}
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		util.ErrResponseInJson(w, fmt.Errorf("%w: address is required", apperrors.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	place, err := h.geocoder.Geocode(ctx, address)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, place, "")
}
