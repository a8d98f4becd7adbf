// Package realtime tracks the editors connected to each file and relays
// presence and content changes between them. All state is process-local and
// ephemeral; a multi-instance deployment needs an external presence channel.
package realtime

import (
	"context"
	"encoding/json"
	"log"
)

// Member is one entry in a room's presence snapshot.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type activeUsersMessage struct {
	Type string          `json:"type"`
	Data activeUsersData `json:"data"`
}

type activeUsersData struct {
	FileID string   `json:"fileId"`
	Users  []Member `json:"users"`
}

type contentChangedMessage struct {
	Type string             `json:"type"`
	Data contentChangedData `json:"data"`
}

type contentChangedData struct {
	FileID  string `json:"fileId"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

type joinRequest struct {
	client *Client
	fileID string
	color  string
}

type leaveRequest struct {
	client *Client
	fileID string
}

type contentRequest struct {
	client  *Client
	fileID  string
	content string
}

// room holds one file's connected editors. members is keyed by user id so a
// user editing in two tabs shows up once; conns counts their connections so
// the member row survives until the last one leaves.
type room struct {
	clients map[*Client]struct{}
	members map[string]Member
	conns   map[string]int
}

// Hub is the room registry. A single Run goroutine consumes all mutation
// channels, so membership changes and snapshot broadcasts for a room can
// never interleave.
type Hub struct {
	joinCh    chan joinRequest
	leaveCh   chan leaveRequest
	contentCh chan contentRequest
	closeCh   chan *Client
	rooms     map[string]*room
}

func NewHub() *Hub {
	return &Hub{
		joinCh:    make(chan joinRequest, 256),
		leaveCh:   make(chan leaveRequest, 256),
		contentCh: make(chan contentRequest, 1024),
		closeCh:   make(chan *Client, 256),
		rooms:     make(map[string]*room),
	}
}

// Join adds the client to a file's room.
func (h *Hub) Join(c *Client, fileID, color string) {
	h.joinCh <- joinRequest{client: c, fileID: fileID, color: color}
}

// Leave removes the client from a file's room.
func (h *Hub) Leave(c *Client, fileID string) {
	h.leaveCh <- leaveRequest{client: c, fileID: fileID}
}

// ContentChange relays an edit to the other members of the room.
func (h *Hub) ContentChange(c *Client, fileID, content string) {
	h.contentCh <- contentRequest{client: c, fileID: fileID, content: content}
}

// Disconnect removes the client from every room it joined.
func (h *Hub) Disconnect(c *Client) {
	h.closeCh <- c
}

// Run drives the hub until ctx is cancelled, then discards every room.
// Member send channels stay open; the write pumps exit off the same
// context, so nothing reads them afterwards.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case req := <-h.joinCh:
			h.handleJoin(req)

		case req := <-h.leaveCh:
			h.handleLeave(req.client, req.fileID)

		case req := <-h.contentCh:
			h.handleContent(req)

		case client := <-h.closeCh:
			for fileID := range client.joined {
				h.handleLeave(client, fileID)
			}

		case <-ctx.Done():
			for fileID, rm := range h.rooms {
				for client := range rm.clients {
					delete(client.joined, fileID)
				}
				delete(h.rooms, fileID)
			}
			return
		}
	}
}

func (h *Hub) handleJoin(req joinRequest) {
	rm, ok := h.rooms[req.fileID]
	if !ok {
		rm = &room{
			clients: make(map[*Client]struct{}),
			members: make(map[string]Member),
			conns:   make(map[string]int),
		}
		h.rooms[req.fileID] = rm
	}

	if _, already := rm.clients[req.client]; already {
		return
	}

	rm.clients[req.client] = struct{}{}
	req.client.joined[req.fileID] = struct{}{}
	rm.conns[req.client.identity.ID]++
	rm.members[req.client.identity.ID] = Member{
		ID:    req.client.identity.ID,
		Name:  req.client.identity.Name,
		Color: req.color,
	}

	h.broadcastSnapshot(req.fileID, rm)
}

func (h *Hub) handleLeave(c *Client, fileID string) {
	rm, ok := h.rooms[fileID]
	if !ok {
		return
	}
	if _, in := rm.clients[c]; !in {
		return
	}

	delete(rm.clients, c)
	delete(c.joined, fileID)
	rm.conns[c.identity.ID]--
	if rm.conns[c.identity.ID] <= 0 {
		delete(rm.conns, c.identity.ID)
		delete(rm.members, c.identity.ID)
	}

	// Last one out discards the room; the next join starts fresh.
	if len(rm.clients) == 0 {
		delete(h.rooms, fileID)
		return
	}

	h.broadcastSnapshot(fileID, rm)
}

func (h *Hub) handleContent(req contentRequest) {
	rm, ok := h.rooms[req.fileID]
	if !ok {
		return
	}
	if _, in := rm.clients[req.client]; !in {
		return
	}

	msg := contentChangedMessage{
		Type: "content-changed",
		Data: contentChangedData{
			FileID:  req.fileID,
			Content: req.content,
			UserID:  req.client.identity.ID,
		},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal content-changed message: %v", err)
		return
	}

	for client := range rm.clients {
		if client == req.client {
			continue
		}
		client.trySend(payload)
	}
}

// broadcastSnapshot sends the room's full member list to every current
// member, the triggering client included. Always a full snapshot, never a
// delta, so clients stay consistent across missed messages.
func (h *Hub) broadcastSnapshot(fileID string, rm *room) {
	users := make([]Member, 0, len(rm.members))
	for _, m := range rm.members {
		users = append(users, m)
	}

	msg := activeUsersMessage{
		Type: "active-users",
		Data: activeUsersData{FileID: fileID, Users: users},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal active-users message: %v", err)
		return
	}

	for client := range rm.clients {
		client.trySend(payload)
	}
}
