package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client embrulha a conexão com o mutex de escrita: o gorilla/websocket
// permite no máximo um escritor por vez na mesma conexão.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub mantém as conexões WebSocket do painel e faz broadcast do snapshot
// recalculado após cada mutação do livro. Todo cliente recebe tudo; não há
// assinatura seletiva.
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub cria o hub. O painel roda local, então qualquer origem é aceita.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// HandleWS faz o upgrade e registra a conexão até ela cair.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("ws client connected", zap.String("remote", conn.RemoteAddr().String()))

	go func() {
		defer func() {
			h.remove(c)
			_ = conn.Close()
			h.log.Info("ws client disconnected", zap.String("remote", conn.RemoteAddr().String()))
		}()
		for {
			// Lê e descarta mensagens do cliente para manter o socket limpo.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast envia o payload para todos os clientes conectados. A escrita é
// serializada por conexão; conexão que falhar na escrita é fechada e descartada.
func (h *Hub) Broadcast(v any) {
	msg, _ := json.Marshal(v)

	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(msg); err != nil {
			h.log.Warn("ws write failed", zap.Error(err))
			_ = c.conn.Close()
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
