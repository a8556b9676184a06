package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists with this engineer")
	ErrEngineerNotFound   = errors.New("engineer not found")
	ErrNotParticipant     = errors.New("not authorized for this connection")
	ErrAlreadyResponded   = errors.New("connection has already been responded to")
	ErrNotAccepted        = errors.New("cannot send messages until connection is accepted")
)

// ConnectionService handles founder-to-engineer contact requests and their
// message threads.
type ConnectionService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewConnectionService(db *gorm.DB, notifications *NotificationService) *ConnectionService {
	return &ConnectionService{DB: db, Notifications: notifications}
}

// Create opens a pending connection from a founder toward an engineer. The
// request message becomes the first entry of the thread.
func (s *ConnectionService) Create(founderID string, req dtos.ConnectionCreateRequest) (*dtos.ConnectionResponse, error) {
	founder, err := s.user(founderID)
	if err != nil {
		return nil, err
	}

	var engineer models.User
	err = s.DB.Where("user_id = ? AND role = ?", req.EngineerID, models.RoleEngineer).First(&engineer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEngineerNotFound
	} else if err != nil {
		return nil, fmt.Errorf("lookup engineer: %w", err)
	}

	var count int64
	s.DB.Model(&models.Connection{}).
		Where("founder_id = ? AND engineer_id = ?", founderID, req.EngineerID).
		Count(&count)
	if count > 0 {
		return nil, ErrConnectionExists
	}

	conn := models.Connection{
		ConnectionID: models.NewID("conn"),
		FounderID:    founderID,
		EngineerID:   req.EngineerID,
		RoleID:       req.RoleID,
		Status:       models.ConnectionPending,
		Messages:     models.MessageList{newMessage(founderID, founder.Name, req.Message)},
	}
	if err := s.DB.Create(&conn).Error; err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}

	if s.Notifications != nil {
		_ = s.Notifications.Create(req.EngineerID, "connection_request",
			"New connection request",
			fmt.Sprintf("%s wants to connect with you", founder.Name))
	}
	return s.enrich(conn, founder.Name, engineer.Name), nil
}

// Respond accepts or declines a pending connection. Only the engineer side
// may respond, and only once.
func (s *ConnectionService) Respond(engineerID, connectionID string, req dtos.ConnectionRespondRequest) (*dtos.ConnectionResponse, error) {
	conn, err := s.get(connectionID)
	if err != nil {
		return nil, err
	}
	if conn.EngineerID != engineerID {
		return nil, ErrNotParticipant
	}
	if conn.Status != models.ConnectionPending {
		return nil, ErrAlreadyResponded
	}

	if req.Accept {
		conn.Status = models.ConnectionAccepted
	} else {
		conn.Status = models.ConnectionDeclined
	}
	if req.Message != nil && *req.Message != "" {
		engineer, err := s.user(engineerID)
		if err != nil {
			return nil, err
		}
		conn.Messages = append(conn.Messages, newMessage(engineerID, engineer.Name, *req.Message))
	}

	if err := s.DB.Save(conn).Error; err != nil {
		return nil, fmt.Errorf("respond to connection: %w", err)
	}

	if s.Notifications != nil {
		_ = s.Notifications.Create(conn.FounderID, "connection_response",
			fmt.Sprintf("Connection %s", conn.Status),
			fmt.Sprintf("Your connection request was %s", conn.Status))
	}
	return s.enrichLookup(*conn)
}

// SendMessage appends to the thread. Only participants of an accepted
// connection may post.
func (s *ConnectionService) SendMessage(senderID, connectionID string, req dtos.MessageSendRequest) (*dtos.ConnectionResponse, error) {
	conn, err := s.get(connectionID)
	if err != nil {
		return nil, err
	}
	if senderID != conn.FounderID && senderID != conn.EngineerID {
		return nil, ErrNotParticipant
	}
	if conn.Status != models.ConnectionAccepted {
		return nil, ErrNotAccepted
	}

	sender, err := s.user(senderID)
	if err != nil {
		return nil, err
	}
	conn.Messages = append(conn.Messages, newMessage(senderID, sender.Name, req.Content))
	if err := s.DB.Save(conn).Error; err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	recipient := conn.FounderID
	if senderID == conn.FounderID {
		recipient = conn.EngineerID
	}
	if s.Notifications != nil {
		_ = s.Notifications.Create(recipient, "new_message",
			"New message", fmt.Sprintf("%s sent you a message", sender.Name))
	}
	return s.enrichLookup(*conn)
}

func (s *ConnectionService) Get(userID, connectionID string) (*dtos.ConnectionResponse, error) {
	conn, err := s.get(connectionID)
	if err != nil {
		return nil, err
	}
	if userID != conn.FounderID && userID != conn.EngineerID {
		return nil, ErrNotParticipant
	}
	return s.enrichLookup(*conn)
}

// List pages through the user's connections on their side of the table.
func (s *ConnectionService) List(userID, role, status string, page, pageSize int) (*dtos.ConnectionListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	column := "engineer_id"
	if role == models.RoleFounder {
		column = "founder_id"
	}
	q := s.DB.Model(&models.Connection{}).Where(column+" = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count connections: %w", err)
	}

	var conns []models.Connection
	err := q.Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&conns).Error
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	out := make([]dtos.ConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		enriched, err := s.enrichLookup(conn)
		if err != nil {
			return nil, err
		}
		out = append(out, *enriched)
	}

	return &dtos.ConnectionListResponse{
		Connections: out,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		HasMore:     int64(page*pageSize) < total,
	}, nil
}

// MarkThreadRead flags every message from the other side as read.
func (s *ConnectionService) MarkThreadRead(userID, connectionID string) error {
	conn, err := s.get(connectionID)
	if err != nil {
		return err
	}
	if userID != conn.FounderID && userID != conn.EngineerID {
		return ErrNotParticipant
	}

	changed := false
	for i := range conn.Messages {
		if conn.Messages[i].SenderID != userID && !conn.Messages[i].Read {
			conn.Messages[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.DB.Save(conn).Error; err != nil {
		return fmt.Errorf("mark thread read: %w", err)
	}
	return nil
}

func (s *ConnectionService) get(connectionID string) (*models.Connection, error) {
	var conn models.Connection
	err := s.DB.Where("connection_id = ?", connectionID).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConnectionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	return &conn, nil
}

func (s *ConnectionService) user(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", userID, err)
	}
	return &user, nil
}

func (s *ConnectionService) enrichLookup(conn models.Connection) (*dtos.ConnectionResponse, error) {
	var founderName, engineerName string
	if u, err := s.user(conn.FounderID); err == nil {
		founderName = u.Name
	}
	if u, err := s.user(conn.EngineerID); err == nil {
		engineerName = u.Name
	}
	return s.enrich(conn, founderName, engineerName), nil
}

func (s *ConnectionService) enrich(conn models.Connection, founderName, engineerName string) *dtos.ConnectionResponse {
	return &dtos.ConnectionResponse{
		Connection:   conn,
		FounderName:  founderName,
		EngineerName: engineerName,
	}
}

func newMessage(senderID, senderName, content string) models.Message {
	return models.Message{
		MessageID:   models.NewID("msg"),
		SenderID:    senderID,
		SenderName:  senderName,
		Content:     content,
		MessageType: "text",
		SentAt:      time.Now().UTC(),
	}
}
