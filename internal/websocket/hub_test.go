package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cadastro-prestador-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, rdb *redis.Client) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(rdb, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func attach(t *testing.T, hub *Hub, id uuid.UUID) *Client {
	t.Helper()
	c := &Client{Hub: hub, PrincipalID: id, Send: make(chan []byte, 4)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.Connected(id) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func TestHubNotifyLocal(t *testing.T) {
	hub := startHub(t, nil)
	id := uuid.New()
	c := attach(t, hub, id)
	other := attach(t, hub, uuid.New())

	hub.Notify(id, Frame{Type: "status", Data: map[string]string{"status": "aprovado"}})

	select {
	case data := <-c.Send:
		var f Frame
		require.NoError(t, json.Unmarshal(data, &f))
		assert.Equal(t, "status", f.Type)
	case <-time.After(time.Second):
		t.Fatal("frame not delivered")
	}
	assert.Empty(t, other.Send)

	hub.unregister <- c
	require.Eventually(t, func() bool { return hub.Connected(id) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHubNotifyAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return rdb
	}
	a := startHub(t, newClient())
	b := startHub(t, newClient())
	id := uuid.New()
	onA := attach(t, a, id)
	onB := attach(t, b, id)

	// the subscription of b is asynchronous, keep notifying until it lands
	require.Eventually(t, func() bool {
		a.Notify(id, Frame{Type: "ping"})
		select {
		case <-onB.Send:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, time.Millisecond)

	// a delivers locally once per Notify and ignores its own echo
	time.Sleep(50 * time.Millisecond)
	sent := 0
	for len(onA.Send) > 0 {
		<-onA.Send
		sent++
	}
	assert.LessOrEqual(t, sent, cap(onA.Send))
	assert.Positive(t, sent)
}
