package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/middleware"
)

type fixture struct {
	hub    *Hub
	tokens *auth.TokenManager
	server *httptest.Server
}

func newFixture(t *testing.T, public bool) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(NewLocalBus(), nil)
	require.NoError(t, hub.Start(ctx))

	tokens := auth.NewTokenManager("realtime-secret", "", 0)
	authn := middleware.NewAuthenticator(tokens, middleware.AuthenticatorConfig{}, nil, nil)
	h := NewHandler(hub, authn, []string{"http://allowed.test"}, public, nil)

	mux := http.NewServeMux()
	mux.Handle("GET /ws", h)
	mux.HandleFunc("GET /ws/public", h.ServePublic)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &fixture{hub: hub, tokens: tokens, server: srv}
}

func (f *fixture) url(path string) string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + path
}

func (f *fixture) dial(t *testing.T, id auth.Identity) *websocket.Conn {
	t.Helper()
	token, err := f.tokens.Encode(id)
	require.NoError(t, err)
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, resp, err := websocket.DefaultDialer.Dial(f.url("/ws"), header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return f.hub.Connections(UserRoom(id.SubjectID)) == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var fr frame
	require.NoError(t, json.Unmarshal(data, &fr))
	return fr
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "expected no frame")
}

func TestOrganizationRoomIsTenantScoped(t *testing.T) {
	f := newFixture(t, false)
	mine := f.dial(t, auth.Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-a"})
	other := f.dial(t, auth.Identity{SubjectID: "emp-2", Role: domain.RoleEmployee, TenantID: "org-b"})

	f.hub.Notify(context.Background(), OrgRoom("org-a"), EventDashboardRefresh, nil)

	fr := readFrame(t, mine)
	assert.Equal(t, EventDashboardRefresh, fr.Event)
	expectSilence(t, other)
}

func TestUserRoomCarriesPayload(t *testing.T) {
	f := newFixture(t, false)
	conn := f.dial(t, auth.Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-a"})

	f.hub.Notify(context.Background(), UserRoom("emp-1"), EventNotification, map[string]string{"type": "leave", "status": "Approved"})

	fr := readFrame(t, conn)
	assert.Equal(t, EventNotification, fr.Event)
	assert.JSONEq(t, `{"type":"leave","status":"Approved"}`, string(fr.Data))
}

func TestHandshakeWithoutTokenIsRejected(t *testing.T) {
	f := newFixture(t, false)
	_, resp, err := websocket.DefaultDialer.Dial(f.url("/ws"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeRejectsForeignOrigin(t *testing.T) {
	f := newFixture(t, false)
	token, err := f.tokens.Encode(auth.Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-a"})
	require.NoError(t, err)
	header := http.Header{
		"Authorization": []string{"Bearer " + token},
		"Origin":        []string{"http://evil.test"},
	}
	_, resp, err := websocket.DefaultDialer.Dial(f.url("/ws"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHRRefreshReachesOrganization(t *testing.T) {
	f := newFixture(t, false)
	hr := f.dial(t, auth.Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-a"})
	emp := f.dial(t, auth.Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-a"})

	require.NoError(t, hr.WriteMessage(websocket.TextMessage, []byte(`{"event":"hr:dashboard:refresh"}`)))

	assert.Equal(t, EventDashboardRefresh, readFrame(t, emp).Event)
}

func TestEmployeeCannotTriggerRefresh(t *testing.T) {
	f := newFixture(t, false)
	hr := f.dial(t, auth.Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-a"})
	emp := f.dial(t, auth.Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-a"})

	require.NoError(t, emp.WriteMessage(websocket.TextMessage, []byte(`{"event":"hr:dashboard:refresh"}`)))

	expectSilence(t, hr)
}

func TestPublicChannel(t *testing.T) {
	closed := newFixture(t, false)
	_, resp, err := websocket.DefaultDialer.Dial(closed.url("/ws/public"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	open := newFixture(t, true)
	conn, resp, err := websocket.DefaultDialer.Dial(open.url("/ws/public"), nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()
	require.Eventually(t, func() bool { return open.hub.Connections(PublicRoom) == 1 }, time.Second, 5*time.Millisecond)

	open.hub.Notify(context.Background(), PublicRoom, EventAnnouncement, "maintenance at 18:00")
	open.hub.Notify(context.Background(), OrgRoom("org-a"), EventDashboardRefresh, nil)

	fr := readFrame(t, conn)
	assert.Equal(t, EventAnnouncement, fr.Event)
	expectSilence(t, conn)
}

func TestRedisBusFansOut(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), nil)
	defer client.Close()

	bus := NewRedisBus(client, "", nil)
	got := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, func(ev Event) { got <- ev }))

	require.NoError(t, bus.Publish(ctx, Event{Room: OrgRoom("org-a"), Name: EventDashboardRefresh}))

	select {
	case ev := <-got:
		assert.Equal(t, OrgRoom("org-a"), ev.Room)
		assert.Equal(t, EventDashboardRefresh, ev.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered through redis")
	}
}

func TestTenantOfRoom(t *testing.T) {
	id, ok := TenantOfRoom(OrgRoom("org-42"))
	assert.True(t, ok)
	assert.Equal(t, "org-42", id)

	for _, room := range []string{UserRoom("u1"), PublicRoom, "org:"} {
		_, ok := TenantOfRoom(room)
		assert.False(t, ok, room)
	}
}
