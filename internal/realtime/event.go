// Package realtime pushes best-effort refresh hints to websocket clients.
// Nothing here is a source of truth: events carry no acknowledgement,
// ordering or replay.
package realtime

import (
	"encoding/json"
	"strings"
)

// Event names sent to clients.
const (
	EventDashboardRefresh = "dashboard:refresh"
	EventNotification     = "notification"
	EventAnnouncement     = "announcement"

	// inboundDashboardRefresh is the client message an HR dashboard sends
	// after a change made outside this server.
	inboundDashboardRefresh = "hr:dashboard:refresh"
)

// PublicRoom is the only room anonymous connections join.
const PublicRoom = "public"

// OrgRoom is the room every connection of an organization joins.
func OrgRoom(tenantID string) string { return "org:" + tenantID }

// TenantOfRoom returns the tenant id of an organization room.
func TenantOfRoom(room string) (string, bool) {
	id, ok := strings.CutPrefix(room, "org:")
	return id, ok && id != ""
}

// UserRoom is the room of one principal.
func UserRoom(subjectID string) string { return "user:" + subjectID }

// Event is one message for one room.
type Event struct {
	Room string          `json:"room"`
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// frame is what a client receives.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type inbound struct {
	Event string `json:"event"`
}
