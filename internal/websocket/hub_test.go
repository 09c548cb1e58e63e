package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	go hub.Run()

	t.Cleanup(func() {
		hub.Stop()
	})

	return hub
}

// joinClient registers the client and waits for the joined confirmation so
// later emits are guaranteed to see the membership.
func joinClient(t *testing.T, hub *Hub, userID uuid.UUID) *Client {
	t.Helper()

	client := NewClient(hub, nil, userID)
	hub.Register(client)
	hub.Join(client, userID)

	msg := receiveMessage(t, client, 2*time.Second)
	require.Equal(t, MessageTypeJoined, msg.Type)

	return client
}

func receiveMessage(t *testing.T, client *Client, timeout time.Duration) *Message {
	t.Helper()

	select {
	case data, ok := <-client.send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for message")
		return nil
	}
}

func expectNoMessage(t *testing.T, client *Client, window time.Duration) {
	t.Helper()

	select {
	case data, ok := <-client.send:
		if ok {
			t.Fatalf("unexpected message: %s", string(data))
		}
	case <-time.After(window):
	}
}

func TestHub_EmitReachesOnlyOwnersRoom(t *testing.T) {
	hub := newRunningHub(t)

	userA := uuid.New()
	userB := uuid.New()

	c1 := joinClient(t, hub, userA)
	c2 := joinClient(t, hub, userA)
	c3 := joinClient(t, hub, userB)

	hub.Emit(userA, "new-job", map[string]string{"company": "Acme"})

	for _, c := range []*Client{c1, c2} {
		msg := receiveMessage(t, c, 2*time.Second)
		assert.Equal(t, "new-job", msg.Type)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "Acme", payload["company"])
	}

	expectNoMessage(t, c3, 200*time.Millisecond)
}

func TestHub_EmitExceptSkipsOriginator(t *testing.T) {
	hub := newRunningHub(t)

	userA := uuid.New()
	originator := joinClient(t, hub, userA)
	other := joinClient(t, hub, userA)

	hub.EmitExcept(userA, "job-changed", map[string]string{"status": "offer"}, originator)

	msg := receiveMessage(t, other, 2*time.Second)
	assert.Equal(t, "job-changed", msg.Type)

	expectNoMessage(t, originator, 200*time.Millisecond)
}

func TestHub_RejoinReplacesMembership(t *testing.T) {
	hub := newRunningHub(t)

	userA := uuid.New()
	userB := uuid.New()

	// One connection can only ever be in one room at a time.
	client := joinClient(t, hub, userA)

	hub.Join(client, userB)
	msg := receiveMessage(t, client, 2*time.Second)
	require.Equal(t, MessageTypeJoined, msg.Type)

	assert.Equal(t, 0, hub.RoomSize(userA))
	assert.Equal(t, 1, hub.RoomSize(userB))

	hub.Emit(userA, "new-job", nil)
	expectNoMessage(t, client, 200*time.Millisecond)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := newRunningHub(t)

	userA := uuid.New()
	client := joinClient(t, hub, userA)

	hub.Unregister(client)
	hub.Unregister(client)

	// Wait for the loop to process both before inspecting room state.
	require.Eventually(t, func() bool {
		return hub.RoomSize(userA) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Emitting to an empty room is a no-op, not a panic.
	hub.Emit(userA, "job-removed", nil)
}

func TestHub_EmitToUnknownRoomIsNoop(t *testing.T) {
	hub := newRunningHub(t)

	hub.Emit(uuid.New(), "new-job", map[string]string{"company": "Acme"})
}

func TestHub_ConcurrentJoinLeaveEmit(t *testing.T) {
	hub := newRunningHub(t)

	userA := uuid.New()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			client := NewClient(hub, nil, userA)
			hub.Register(client)
			hub.Join(client, userA)
			hub.Unregister(client)
		}
	}()

	for i := 0; i < 50; i++ {
		hub.Emit(userA, "job-changed", map[string]int{"seq": i})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("churn goroutine did not finish")
	}
}
