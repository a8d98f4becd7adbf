package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func newMemberClient(hub *Hub, id, name string) *Client {
	return NewClient(hub, nil, Identity{ID: id, Name: name}, nil)
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.Send:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func recvSnapshot(t *testing.T, c *Client) activeUsersData {
	t.Helper()
	var msg activeUsersMessage
	require.NoError(t, json.Unmarshal(recv(t, c), &msg))
	require.Equal(t, "active-users", msg.Type)
	return msg.Data
}

func recvContentChanged(t *testing.T, c *Client) contentChangedData {
	t.Helper()
	var msg contentChangedMessage
	require.NoError(t, json.Unmarshal(recv(t, c), &msg))
	require.Equal(t, "content-changed", msg.Type)
	return msg.Data
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.Send:
		t.Fatalf("unexpected message: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func memberIDs(users []Member) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestJoinBroadcastsFullSnapshot(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	bob := newMemberClient(hub, "u2", "Bob")

	hub.Join(alice, "f1", "#ff0000")
	snap := recvSnapshot(t, alice)
	assert.Equal(t, "f1", snap.FileID)
	assert.ElementsMatch(t, []string{"u1"}, memberIDs(snap.Users))

	hub.Join(bob, "f1", "#00ff00")
	// Every current member gets the full list, the joiner included.
	assert.ElementsMatch(t, []string{"u1", "u2"}, memberIDs(recvSnapshot(t, alice).Users))
	assert.ElementsMatch(t, []string{"u1", "u2"}, memberIDs(recvSnapshot(t, bob).Users))
}

func TestLeaveBroadcastsRemaining(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	bob := newMemberClient(hub, "u2", "Bob")

	hub.Join(alice, "f1", "")
	recvSnapshot(t, alice)
	hub.Join(bob, "f1", "")
	recvSnapshot(t, alice)
	recvSnapshot(t, bob)

	hub.Leave(bob, "f1")
	snap := recvSnapshot(t, alice)
	assert.ElementsMatch(t, []string{"u1"}, memberIDs(snap.Users))
	assertNoMessage(t, bob)
}

func TestLastLeaveDiscardsRoom(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	carol := newMemberClient(hub, "u3", "Carol")

	hub.Join(alice, "f1", "")
	recvSnapshot(t, alice)
	hub.Leave(alice, "f1")
	assertNoMessage(t, alice)

	// A fresh join starts an empty-then-one-member snapshot, not leftovers.
	hub.Join(carol, "f1", "")
	snap := recvSnapshot(t, carol)
	assert.ElementsMatch(t, []string{"u3"}, memberIDs(snap.Users))
}

func TestContentChangeNotEchoedToAuthor(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	bob := newMemberClient(hub, "u2", "Bob")

	hub.Join(alice, "f1", "")
	recvSnapshot(t, alice)
	hub.Join(bob, "f1", "")
	recvSnapshot(t, alice)
	recvSnapshot(t, bob)

	hub.ContentChange(alice, "f1", "new draft")
	change := recvContentChanged(t, bob)
	assert.Equal(t, "f1", change.FileID)
	assert.Equal(t, "new draft", change.Content)
	assert.Equal(t, "u1", change.UserID)
	assertNoMessage(t, alice)
}

func TestContentChangeFromNonMemberDropped(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	mallory := newMemberClient(hub, "u9", "Mallory")

	hub.Join(alice, "f1", "")
	recvSnapshot(t, alice)

	hub.ContentChange(mallory, "f1", "injected")
	assertNoMessage(t, alice)
}

func TestDisconnectLeavesEveryRoom(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	bob := newMemberClient(hub, "u2", "Bob")

	for _, fileID := range []string{"f1", "f2"} {
		hub.Join(alice, fileID, "")
		recvSnapshot(t, alice)
		hub.Join(bob, fileID, "")
		recvSnapshot(t, alice)
		recvSnapshot(t, bob)
	}

	hub.Disconnect(alice)
	first := recvSnapshot(t, bob)
	second := recvSnapshot(t, bob)
	assert.ElementsMatch(t, []string{"f1", "f2"}, []string{first.FileID, second.FileID})
	assert.ElementsMatch(t, []string{"u2"}, memberIDs(first.Users))
	assert.ElementsMatch(t, []string{"u2"}, memberIDs(second.Users))
}

func TestSlowSubscriberDoesNotBlockRoom(t *testing.T) {
	hub := startHub(t)
	alice := newMemberClient(hub, "u1", "Alice")
	bob := newMemberClient(hub, "u2", "Bob")
	slow := newMemberClient(hub, "u3", "Slow")

	hub.Join(alice, "f1", "")
	recvSnapshot(t, alice)
	hub.Join(bob, "f1", "")
	recvSnapshot(t, alice)
	recvSnapshot(t, bob)
	hub.Join(slow, "f1", "")
	recvSnapshot(t, alice)
	recvSnapshot(t, bob)
	recvSnapshot(t, slow)

	// Fill the slow subscriber's buffer; deliveries to it get dropped.
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("backlog")
	}

	hub.ContentChange(alice, "f1", "still flowing")
	change := recvContentChanged(t, bob)
	assert.Equal(t, "still flowing", change.Content)
}

func TestSameUserTwoConnections(t *testing.T) {
	hub := startHub(t)
	tabOne := newMemberClient(hub, "u1", "Alice")
	tabTwo := newMemberClient(hub, "u1", "Alice")
	bob := newMemberClient(hub, "u2", "Bob")

	hub.Join(tabOne, "f1", "")
	recvSnapshot(t, tabOne)
	hub.Join(bob, "f1", "")
	recvSnapshot(t, tabOne)
	recvSnapshot(t, bob)

	// A second tab of the same user does not duplicate the member row.
	hub.Join(tabTwo, "f1", "")
	assert.ElementsMatch(t, []string{"u1", "u2"}, memberIDs(recvSnapshot(t, bob).Users))
	recvSnapshot(t, tabOne)
	recvSnapshot(t, tabTwo)

	// The member stays until the user's last connection leaves.
	hub.Leave(tabOne, "f1")
	assert.ElementsMatch(t, []string{"u1", "u2"}, memberIDs(recvSnapshot(t, bob).Users))
	recvSnapshot(t, tabTwo)

	hub.Leave(tabTwo, "f1")
	assert.ElementsMatch(t, []string{"u2"}, memberIDs(recvSnapshot(t, bob).Users))
}
