package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/models"
)

func TestSend(t *testing.T) {
	var got quickSMSReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sms/quick" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k1" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"status":"success","code":"2000","message":"messages sent successfully"}`))
	}))
	defer srv.Close()

	c := NewClient(models.SMSConfig{BaseURL: srv.URL + "/", APIKey: "k1", SenderID: "EcoWasteGo"})
	if err := c.Send(context.Background(), "Your pickup was accepted", "0241234567", " ", ""); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(got.Recipient) != 1 || got.Recipient[0] != "0241234567" {
		t.Errorf("Recipient = %v", got.Recipient)
	}
	if got.Sender != "EcoWasteGo" || got.Message != "Your pickup was accepted" || got.IsSchedule {
		t.Errorf("body = %+v", got)
	}
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"provider error", http.StatusOK, `{"status":"error","code":"1005","message":"invalid sender id"}`},
		{"http error", http.StatusUnauthorized, `{"status":"error"}`},
		{"bad json", http.StatusOK, `<html>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(models.SMSConfig{BaseURL: srv.URL, APIKey: "k1"})
			if err := c.Send(context.Background(), "hi", "0241234567"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSendRequiresKeyAndRecipient(t *testing.T) {
	if err := NewClient(models.SMSConfig{}).Send(context.Background(), "hi", "0241234567"); err == nil {
		t.Error("expected error without api key")
	}
	if err := NewClient(models.SMSConfig{APIKey: "k"}).Send(context.Background(), "hi"); err == nil {
		t.Error("expected error without recipients")
	}
}
