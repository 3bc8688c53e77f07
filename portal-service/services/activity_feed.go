package services

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"carelink-backend/shared/config"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// ActivityFeed pushes recorded audit events to connected admin dashboards.
// Delivery is scoped like the audit trail itself: global admins see every
// event, org admins only events produced inside their own organization.
type ActivityFeed struct {
	clients    map[string]*feedClient // userID -> client
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan feedEvent
}

type feedClient struct {
	UserID     string
	Access     *pipeline.AccessContext
	Connection *websocket.Conn
}

// feedEvent pairs an audit event with the producing actor's organization
type feedEvent struct {
	Event models.AuditEvent
	OrgID *uuid.UUID
}

var feed *ActivityFeed
var feedOnce sync.Once

// GetActivityFeed returns the singleton activity feed hub
func GetActivityFeed() *ActivityFeed {
	feedOnce.Do(func() {
		feed = &ActivityFeed{
			clients: make(map[string]*feedClient),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == config.GetConfig().FrontendURL {
						return true
					}
					log.Printf("🚫 Activity feed connection rejected from origin: %s", origin)
					return false
				},
			},
			register:   make(chan *feedClient, 100),
			unregister: make(chan *feedClient, 100),
			broadcast:  make(chan feedEvent, 1000),
		}
		go feed.run()
	})
	return feed
}

// Publish queues an audit event for delivery to connected clients. The orgID
// is the producing actor's organization, used to scope delivery.
// Non-blocking; events are dropped if the feed is saturated.
func (f *ActivityFeed) Publish(event models.AuditEvent, orgID *uuid.UUID) {
	select {
	case f.broadcast <- feedEvent{Event: event, OrgID: orgID}:
	default:
		log.Printf("⚠️ Activity feed buffer full, dropping event: %s", event.Action)
	}
}

// canReceive decides whether a client's access covers an event. Mirrors the
// audit trail read rule: global admins see everything, org admins only their
// own organization's activity, everyone else nothing.
func canReceive(ac *pipeline.AccessContext, orgID *uuid.UUID) bool {
	if ac == nil {
		return false
	}
	if ac.GlobalAdmin {
		return true
	}
	if !ac.OrgAdmin {
		return false
	}
	return orgID != nil && ac.OrganizationID != nil && *ac.OrganizationID == *orgID
}

// HandleConnection upgrades the request and registers the client.
// Must run behind the auth and access middleware.
func (f *ActivityFeed) HandleConnection(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	uid := userID.(uuid.UUID).String()

	accessValue, exists := c.Get("access")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	ac, ok := accessValue.(*pipeline.AccessContext)
	if !ok || (!ac.GlobalAdmin && !ac.OrgAdmin) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "You do not have permission to perform this action",
		})
		return
	}

	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Activity feed upgrade failed: %v", err)
		return
	}

	f.register <- &feedClient{UserID: uid, Access: ac, Connection: conn}

	// Drain reads so pings and close frames are processed
	go func() {
		defer func() {
			f.unregister <- &feedClient{UserID: uid, Connection: conn}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (f *ActivityFeed) run() {
	for {
		select {
		case client := <-f.register:
			f.registerClient(client)

		case client := <-f.unregister:
			f.unregisterClient(client)

		case event := <-f.broadcast:
			f.broadcastEvent(event)
		}
	}
}

func (f *ActivityFeed) registerClient(client *feedClient) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if existing, exists := f.clients[client.UserID]; exists {
		existing.Connection.Close()
	}

	f.clients[client.UserID] = client
	log.Printf("🔌 Activity feed client connected: %s (Total: %d)", client.UserID, len(f.clients))
}

func (f *ActivityFeed) unregisterClient(client *feedClient) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, exists := f.clients[client.UserID]; exists {
		delete(f.clients, client.UserID)
		client.Connection.Close()
		log.Printf("🔌 Activity feed client disconnected: %s (Total: %d)", client.UserID, len(f.clients))
	}
}

func (f *ActivityFeed) broadcastEvent(event feedEvent) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	for userID, client := range f.clients {
		if !canReceive(client.Access, event.OrgID) {
			continue
		}
		if err := client.Connection.WriteJSON(event.Event); err != nil {
			log.Printf("❌ Failed to push activity to %s: %v", userID, err)
			go func(fc *feedClient) {
				f.unregister <- fc
			}(client)
		}
	}
}
