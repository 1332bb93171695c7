package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

const (
	authTimeout  = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type WSResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// wsClient serialises writes; gorilla allows one concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// WSManager keeps one live connection per customer.
type WSManager struct {
	customers map[string]*wsClient
	mu        sync.RWMutex
	verifier  *middleware.TokenVerifier
	logger    *util.Logger
}

func NewWSManager(verifier *middleware.TokenVerifier, logger *util.Logger) *WSManager {
	return &WSManager{
		customers: make(map[string]*wsClient),
		verifier:  verifier,
		logger:    logger,
	}
}

// CustomerWSHandler upgrades the connection and expects
// {"type":"auth","token":"Bearer ..."} for the same customer within 5s.
func (m *WSManager) CustomerWSHandler(w http.ResponseWriter, r *http.Request) {
	instance := "WSManager.CustomerWSHandler"
	customerID := r.PathValue("customer_id")
	if customerID == "" {
		util.WriteJSONError(w, "invalid path", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn(instance, fmt.Sprintf("upgrade failed: %v", err))
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}

	conn.SetReadDeadline(time.Now().Add(authTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		_ = client.write(WSResponse{Type: "error", Message: "auth timeout"})
		return
	}

	var auth AuthMessage
	if err := json.Unmarshal(msg, &auth); err != nil || auth.Type != "auth" {
		_ = client.write(WSResponse{Type: "error", Message: "first message must be auth"})
		return
	}
	claims, err := m.verifier.Verify(auth.Token)
	if err != nil || claims.Subject != customerID {
		_ = client.write(WSResponse{Type: "error", Message: "invalid token or customer_id"})
		return
	}

	m.register(customerID, client)
	defer m.unregister(customerID, client)
	_ = client.write(WSResponse{Type: "auth_success", Message: "authenticated"})
	m.logger.Info(instance, "customer connected: "+customerID)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Incoming messages are ignored; reading drives the pong handler and
	// notices a closed socket.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			m.logger.Info(instance, "customer disconnected: "+customerID)
			return
		case <-ticker.C:
			if err := client.ping(); err != nil {
				m.logger.Warn(instance, fmt.Sprintf("ping to %s failed: %v", customerID, err))
				return
			}
		}
	}
}

// SendToCustomer pushes message to the customer's socket. A customer who is
// not connected is not an error.
func (m *WSManager) SendToCustomer(customerID string, message interface{}) error {
	m.mu.RLock()
	client, ok := m.customers[customerID]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	if err := client.write(message); err != nil {
		m.unregister(customerID, client)
		return err
	}
	return nil
}

func (m *WSManager) Connected(customerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.customers[customerID]
	return ok
}

func (m *WSManager) register(customerID string, c *wsClient) {
	m.mu.Lock()
	old := m.customers[customerID]
	m.customers[customerID] = c
	m.mu.Unlock()

	// A newer connection replaces an older one from the same customer.
	if old != nil {
		old.conn.Close()
	}
}

func (m *WSManager) unregister(customerID string, c *wsClient) {
	m.mu.Lock()
	if m.customers[customerID] == c {
		delete(m.customers, customerID)
	}
	m.mu.Unlock()
}
