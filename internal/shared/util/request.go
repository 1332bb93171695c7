package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads a JSON body of at most MaxBodyBytes into v, rejecting
// unknown fields. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body exceeds %d bytes", apperrors.ErrValidation, tooLarge.Limit)
	}
	return fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrValidation, err)
}

// PageParams reads ?page and ?page_size. Bad values fall back to 1 and 20.
func PageParams(r *http.Request) (page, pageSize int) {
	page, pageSize = 1, 20

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && ps > 0 {
		pageSize = ps
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// QueryLatLng reads a "lat,lng" query parameter. ok is false when the
// parameter is absent.
func QueryLatLng(r *http.Request, name string) (p LatLng, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return LatLng{}, false, nil
	}
	p, err = ParseLatLng(raw)
	if err != nil {
		return LatLng{}, true, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, name, err)
	}
	return p, true, nil
}
