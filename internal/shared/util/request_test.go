package util

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Reason string `json:"reason"`
	}

	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"valid", `{"reason":"no show"}`, "no show", false},
		{"empty body", ``, "", false},
		{"unknown field", `{"why":"x"}`, "", true},
		{"broken json", `{"reason":`, "", true},
	}

	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.payload))
		var b body
		err := DecodeJSON(r, &b)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v", tc.name, err)
		}
		if err != nil && !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("%s: %v is not a validation error", tc.name, err)
		}
		if b.Reason != tc.want {
			t.Errorf("%s: reason = %q, want %q", tc.name, b.Reason, tc.want)
		}
	}
}

func TestDecodeJSONBodyLimit(t *testing.T) {
	var b struct {
		Reason string `json:"reason"`
	}
	payload := `{"reason":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

	err := DecodeJSON(r, &b)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("err = %v, want size error", err)
	}
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query          string
		page, pageSize int
	}{
		{"", 1, 20},
		{"?page=3&page_size=5", 3, 5},
		{"?page=-1&page_size=abc", 1, 20},
		{"?page_size=1000", 1, 100},
	}

	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		page, size := PageParams(r)
		if page != tc.page || size != tc.pageSize {
			t.Errorf("PageParams(%q) = %d, %d; want %d, %d", tc.query, page, size, tc.page, tc.pageSize)
		}
	}
}

func TestQueryLatLng(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?from=5.6037,-0.1870&to=abc", nil)

	p, ok, err := QueryLatLng(r, "from")
	if err != nil || !ok || p.Lat != 5.6037 || p.Lng != -0.1870 {
		t.Errorf("from = %+v, %v, %v", p, ok, err)
	}
	if _, ok, err := QueryLatLng(r, "to"); !ok || !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("to: ok=%v err=%v", ok, err)
	}
	if _, ok, err := QueryLatLng(r, "via"); ok || err != nil {
		t.Errorf("via: ok=%v err=%v", ok, err)
	}
}
