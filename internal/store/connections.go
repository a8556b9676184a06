package store

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
)

// ConnectionsStore caches the user's connection threads.
type ConnectionsStore struct {
	state
	api *client.Client

	connections []dtos.ConnectionResponse
	total       int64
}

func NewConnectionsStore(api *client.Client) *ConnectionsStore {
	return &ConnectionsStore{api: api}
}

func (s *ConnectionsStore) Connections() []dtos.ConnectionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dtos.ConnectionResponse(nil), s.connections...)
}

func (s *ConnectionsStore) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Fetch replaces the cached page.
func (s *ConnectionsStore) Fetch(ctx context.Context, status string, page, pageSize int) Result {
	s.begin()

	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	var resp dtos.ConnectionListResponse
	if err := s.api.Get(ctx, "/connections", q, &resp); err != nil {
		msg := client.ErrorMessage(err, "Failed to load connections")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.connections = resp.Connections
	s.total = resp.Total
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// Create opens a connection toward an engineer; the new thread goes to the
// head of the list.
func (s *ConnectionsStore) Create(ctx context.Context, engineerID, message string, roleID *string) Result {
	s.begin()

	var conn dtos.ConnectionResponse
	req := dtos.ConnectionCreateRequest{EngineerID: engineerID, Message: message, RoleID: roleID}
	if err := s.api.Post(ctx, "/connections", req, &conn); err != nil {
		msg := client.ErrorMessage(err, "Failed to create connection")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.connections = append([]dtos.ConnectionResponse{conn}, s.connections...)
	s.total++
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// Respond accepts or declines a pending request and replaces the thread.
func (s *ConnectionsStore) Respond(ctx context.Context, connectionID string, accept bool, message *string) Result {
	s.begin()

	var conn dtos.ConnectionResponse
	req := dtos.ConnectionRespondRequest{Accept: accept, Message: message}
	if err := s.api.Post(ctx, "/connections/"+connectionID+"/respond", req, &conn); err != nil {
		msg := client.ErrorMessage(err, "Failed to respond to connection")
		s.finish(msg)
		return fail(msg)
	}
	s.replace(conn)
	return ok()
}

// SendMessage appends to a thread and replaces the cached copy.
func (s *ConnectionsStore) SendMessage(ctx context.Context, connectionID, content string) Result {
	s.begin()

	var conn dtos.ConnectionResponse
	req := dtos.MessageSendRequest{Content: content}
	if err := s.api.Post(ctx, "/connections/"+connectionID+"/messages", req, &conn); err != nil {
		msg := client.ErrorMessage(err, "Failed to send message")
		s.finish(msg)
		return fail(msg)
	}
	s.replace(conn)
	return ok()
}

func (s *ConnectionsStore) replace(conn dtos.ConnectionResponse) {
	s.mu.Lock()
	for i := range s.connections {
		if s.connections[i].ConnectionID == conn.ConnectionID {
			s.connections[i] = conn
			break
		}
	}
	s.loading = false
	s.mu.Unlock()
}
