package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewRealtimeHub()
	c1 := &WSClient{UserID: 7}
	c2 := &WSClient{UserID: 7}

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ClientCount(7))

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ClientCount(7))
	hub.Unregister(c2)
	assert.Equal(t, 0, hub.ClientCount(7))
}

func TestHubBroadcastNoClients(t *testing.T) {
	hub := NewRealtimeHub()
	// must not panic with nobody connected
	hub.Broadcast(42, "alert", map[string]string{"msg": "hello"})
}

// The ping loop and hub broadcasts write to the same connection from
// different goroutines; WSClient.Write must serialize them.
func TestClientWriteConcurrent(t *testing.T) {
	up := websocket.Upgrader{}
	clients := make(chan *WSClient, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		require.NoError(t, err)
		clients <- &WSClient{UserID: 9, Conn: conn}
	}))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	cl := <-clients

	const perWriter = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*perWriter)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			errs <- cl.Write(websocket.TextMessage, []byte(`{"type":"chat"}`))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			errs <- cl.Write(websocket.PingMessage, nil)
		}
	}()

	received := 0
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for received < perWriter {
		mt, _, err := conn.ReadMessage()
		require.NoError(t, err)
		if mt == websocket.TextMessage {
			received++
		}
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestHubBroadcastDelivers(t *testing.T) {
	hub := NewRealtimeHub()
	up := websocket.Upgrader{}
	registered := make(chan struct{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&WSClient{UserID: 3, Conn: conn})
		close(registered)
	}))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered")
	}

	hub.Broadcast(3, "chat", map[string]string{"content": "hi there"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "chat", ev.Type)
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi there", payload["content"])
}
