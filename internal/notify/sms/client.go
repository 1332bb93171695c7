// Package sms sends text messages through the mNotify quick SMS API.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/models"
)

type Client struct {
	baseURL string
	apiKey  string
	sender  string
	http    *http.Client
}

func NewClient(cfg models.SMSConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		sender:  cfg.SenderID,
		http:    &http.Client{Timeout: timeout},
	}
}

type quickSMSReq struct {
	Recipient    []string `json:"recipient"`
	Sender       string   `json:"sender"`
	Message      string   `json:"message"`
	IsSchedule   bool     `json:"is_schedule"`
	ScheduleDate string   `json:"schedule_date"`
}

type quickSMSResp struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Send(ctx context.Context, message string, recipients ...string) error {
	if !c.Configured() {
		return fmt.Errorf("mnotify api key is not configured")
	}

	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	if len(to) == 0 {
		return fmt.Errorf("sms: no recipients")
	}

	b, err := json.Marshal(quickSMSReq{
		Recipient: to,
		Sender:    c.sender,
		Message:   message,
	})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/api/sms/quick?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mnotify request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mnotify http %d: %s", resp.StatusCode, string(raw))
	}

	var out quickSMSResp
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("mnotify decode error: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("mnotify error %s: %s", out.Code, out.Message)
	}
	return nil
}
