package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
	"github.com/jobhub/jobhub/internal/services"
)

type ConnectionHandler struct {
	Connections *services.ConnectionService
}

func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{Connections: connections}
}

// Create is POST /connections
func (h *ConnectionHandler) Create(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role != models.RoleFounder {
		detail(c, http.StatusForbidden, "Only founders can start connections")
		return
	}

	var req dtos.ConnectionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	conn, err := h.Connections.Create(user.UserID, req)
	switch {
	case err == services.ErrEngineerNotFound:
		detail(c, http.StatusNotFound, "Engineer not found")
	case err == services.ErrConnectionExists:
		detail(c, http.StatusBadRequest, "Connection already exists with this engineer")
	case err != nil:
		log.Error().Err(err).Msg("create connection failed")
		detail(c, http.StatusInternalServerError, "Failed to create connection")
	default:
		c.JSON(http.StatusCreated, conn)
	}
}

// List is GET /connections
func (h *ConnectionHandler) List(c *gin.Context) {
	user := auth.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	list, err := h.Connections.List(user.UserID, user.Role, c.Query("status"), page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("list connections failed")
		detail(c, http.StatusInternalServerError, "Failed to load connections")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get is GET /connections/:id
func (h *ConnectionHandler) Get(c *gin.Context) {
	user := auth.CurrentUser(c)

	conn, err := h.Connections.Get(user.UserID, c.Param("id"))
	switch {
	case err == services.ErrConnectionNotFound:
		detail(c, http.StatusNotFound, "Connection not found")
	case err == services.ErrNotParticipant:
		detail(c, http.StatusForbidden, "Not authorized for this connection")
	case err != nil:
		log.Error().Err(err).Msg("get connection failed")
		detail(c, http.StatusInternalServerError, "Failed to load connection")
	default:
		c.JSON(http.StatusOK, conn)
	}
}

// Respond is POST /connections/:id/respond
func (h *ConnectionHandler) Respond(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req dtos.ConnectionRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	conn, err := h.Connections.Respond(user.UserID, c.Param("id"), req)
	switch {
	case err == services.ErrConnectionNotFound:
		detail(c, http.StatusNotFound, "Connection not found")
	case err == services.ErrNotParticipant:
		detail(c, http.StatusForbidden, "Not authorized to respond to this connection")
	case err == services.ErrAlreadyResponded:
		detail(c, http.StatusBadRequest, "Connection has already been responded to")
	case err != nil:
		log.Error().Err(err).Msg("respond to connection failed")
		detail(c, http.StatusInternalServerError, "Failed to respond to connection")
	default:
		c.JSON(http.StatusOK, conn)
	}
}

// SendMessage is POST /connections/:id/messages
func (h *ConnectionHandler) SendMessage(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req dtos.MessageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	conn, err := h.Connections.SendMessage(user.UserID, c.Param("id"), req)
	switch {
	case err == services.ErrConnectionNotFound:
		detail(c, http.StatusNotFound, "Connection not found")
	case err == services.ErrNotParticipant:
		detail(c, http.StatusForbidden, "Not authorized to send messages in this connection")
	case err == services.ErrNotAccepted:
		detail(c, http.StatusBadRequest, "Cannot send messages until connection is accepted")
	case err != nil:
		log.Error().Err(err).Msg("send message failed")
		detail(c, http.StatusInternalServerError, "Failed to send message")
	default:
		c.JSON(http.StatusOK, conn)
	}
}

// MarkRead is POST /connections/:id/read
func (h *ConnectionHandler) MarkRead(c *gin.Context) {
	user := auth.CurrentUser(c)

	err := h.Connections.MarkThreadRead(user.UserID, c.Param("id"))
	switch {
	case err == services.ErrConnectionNotFound:
		detail(c, http.StatusNotFound, "Connection not found")
	case err == services.ErrNotParticipant:
		detail(c, http.StatusForbidden, "Not authorized for this connection")
	case err != nil:
		log.Error().Err(err).Msg("mark thread read failed")
		detail(c, http.StatusInternalServerError, "Failed to mark messages read")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Messages marked read"})
	}
}
