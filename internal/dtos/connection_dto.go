package dtos

import "github.com/jobhub/jobhub/internal/models"

type ConnectionCreateRequest struct {
	EngineerID string  `json:"engineer_id" binding:"required"`
	Message    string  `json:"message" binding:"required"`
	RoleID     *string `json:"role_id"`
}

type ConnectionRespondRequest struct {
	Accept  bool    `json:"accept"`
	Message *string `json:"message"`
}

type MessageSendRequest struct {
	Content string `json:"content" binding:"required"`
}

// ConnectionResponse enriches a connection with the display names the thread
// view needs.
type ConnectionResponse struct {
	models.Connection
	FounderName  string `json:"founder_name"`
	EngineerName string `json:"engineer_name"`
}

type ConnectionListResponse struct {
	Connections []ConnectionResponse `json:"connections"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	HasMore     bool                 `json:"has_more"`
}
