package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"visaguide/internal/app"
	"visaguide/internal/transport/http/middleware"
	"visaguide/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type SendMessageResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	UserID    uint   `json:"userId,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if middleware.BodyTooLarge(err) {
			response.ChatError(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		response.ChatError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, email := middleware.Identity(c)
	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		Message:   req.Message,
		SessionID: req.SessionID,
		UserID:    userID,
		UserEmail: email,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.ChatError(c, http.StatusBadRequest, "Missing required message field")
		default:
			response.ChatError(c, http.StatusInternalServerError, "An error occurred while processing your request")
		}
		return
	}

	c.JSON(http.StatusOK, SendMessageResponse{
		Response:  result.Response,
		SessionID: result.SessionID,
		UserID:    result.UserID,
		UserEmail: result.UserEmail,
	})
}
