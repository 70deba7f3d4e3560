package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/types"
)

// AssistantHandler serves the meal assistant conversation.
type AssistantHandler struct {
	assistant service.IAssistantService
}

func NewAssistantHandler(assistant service.IAssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// CreateSession starts a conversation seeded with the calorie greeting.
func (h *AssistantHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.assistant.StartSession(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Set up your user data before chatting"})
			return
		}
		log.Printf("[AssistantHandler] start failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *AssistantHandler) GetSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.assistant.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SendMessage runs one turn of the conversation. Model failures still
// answer 200 with an apology as the reply.
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	reply, err := h.assistant.Reply(c.Request.Context(), userID, c.Param("id"), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AssistantHandler) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Set up your user data before chatting"})
	default:
		log.Printf("[AssistantHandler] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message", "details": err.Error()})
	}
}
