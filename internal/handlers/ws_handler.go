package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"unitask-api/internal/chat"
	"unitask-api/internal/database"
	"unitask-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
type wsClient struct {
	userID string
	conn   *websocket.Conn
	// writeMu serializes writes: broadcasts can reach the same connection
	// from several request goroutines at once, and gorilla/websocket
	// allows only one concurrent writer.
	writeMu sync.Mutex
}

func (c *wsClient) UserID() string {
	return c.userID
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// wsEvent is the envelope for every message on the live channel.
type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinLeaveData struct {
	GroupID string `json:"groupId"`
}

type sendMessageData struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

type typingData struct {
	GroupID  string `json:"groupId"`
	IsTyping bool   `json:"isTyping"`
}

func marshalEvent(event string, data interface{}) []byte {
	payload, err := json.Marshal(gin.H{"event": event, "data": data})
	if err != nil {
		return nil
	}
	return payload
}

// WebSocketHandler upgrades the connection and serves the live chat channel:
// join-group, leave-group, send-message and typing events in; new-message,
// user-typing, user-joined and user-left events out.
// It requires JWT middleware to have set "user_id" in context.
func WebSocketHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := &wsClient{userID: userID, conn: conn}
	hub := realtime.GetHub()

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		for _, groupID := range hub.LeaveAll(client) {
			hub.Broadcast(groupID, marshalEvent("user-left", gin.H{
				"userId":    userID,
				"timestamp": time.Now(),
			}))
		}
		client.Close()
	}()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; exit loop
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var evt wsEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			client.Send(marshalEvent("error", gin.H{"message": "Malformed event"}))
			continue
		}
		handleWsEvent(client, evt)
	}
}

func handleWsEvent(client *wsClient, evt wsEvent) {
	hub := realtime.GetHub()
	db := database.GetDB()

	switch evt.Event {
	case "join-group":
		var data joinLeaveData
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.GroupID == "" {
			client.Send(marshalEvent("error", gin.H{"message": "Malformed event"}))
			return
		}
		if _, err := chat.LoadGroupForMember(db, data.GroupID, client.userID); err != nil {
			client.Send(marshalEvent("error", gin.H{"message": "Cannot join this group"}))
			return
		}
		hub.Join(data.GroupID, client)
		hub.BroadcastExcept(data.GroupID, client, marshalEvent("user-joined", gin.H{
			"userId":    client.userID,
			"timestamp": time.Now(),
		}))

	case "leave-group":
		var data joinLeaveData
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.GroupID == "" {
			return
		}
		hub.Leave(data.GroupID, client)
		hub.Broadcast(data.GroupID, marshalEvent("user-left", gin.H{
			"userId":    client.userID,
			"timestamp": time.Now(),
		}))

	case "send-message":
		var data sendMessageData
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.GroupID == "" {
			client.Send(marshalEvent("error", gin.H{"message": "Malformed event"}))
			return
		}
		msg, err := chat.PostMessage(db, data.GroupID, client.userID, data.Content, nil)
		if err != nil {
			client.Send(marshalEvent("error", gin.H{"message": "Failed to send message"}))
			return
		}
		// Fan out to everyone in the room, the sender included; the
		// server decides canonical ordering.
		hub.Broadcast(data.GroupID, marshalEvent("new-message", msg))

	case "typing":
		var data typingData
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.GroupID == "" {
			return
		}
		// Ephemeral: relayed to the others in the room, never persisted.
		hub.BroadcastExcept(data.GroupID, client, marshalEvent("user-typing", gin.H{
			"userId":   client.userID,
			"isTyping": data.IsTyping,
		}))

	default:
		client.Send(marshalEvent("error", gin.H{"message": "Unknown event"}))
	}
}
