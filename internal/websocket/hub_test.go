package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-console/internal/event"
)

func dialTestHub(t *testing.T, interval time.Duration, onTick func() error) (*Hub, event.Bus, *websocket.Conn) {
	t.Helper()

	bus := event.NewBus()
	hub := NewHub(bus)
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, interval, onTick)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, bus, conn
}

func readEvent(t *testing.T, conn *websocket.Conn) event.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var e event.Event
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestHubRelaysBusEvents(t *testing.T) {
	t.Parallel()

	_, bus, conn := dialTestHub(t, time.Hour, nil)

	// The register send and the publish race; give the hub a beat.
	time.Sleep(20 * time.Millisecond)
	bus.Publish(event.New(event.TypeViewRefreshed, nil))

	e := readEvent(t, conn)
	assert.Equal(t, event.TypeViewRefreshed, e.Type)
	assert.NotEmpty(t, e.ID)
}

func TestTickFailureTellsClientSessionExpired(t *testing.T) {
	t.Parallel()

	onTick := func() error { return errors.New("backend said 401") }
	_, _, conn := dialTestHub(t, 10*time.Millisecond, onTick)

	e := readEvent(t, conn)
	assert.Equal(t, event.TypeSessionExpired, e.Type)
}

func TestHealthyTickSendsNothing(t *testing.T) {
	t.Parallel()

	ticked := make(chan struct{}, 1)
	onTick := func() error {
		select {
		case ticked <- struct{}{}:
		default:
		}
		return nil
	}
	_, _, conn := dialTestHub(t, 10*time.Millisecond, onTick)

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh tick never fired")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout(), "a healthy tick must not push anything to the page")
}
