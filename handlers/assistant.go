package handlers

import (
	"net/http"

	"meetwise/services/scheduling"
	"meetwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatRequest is the payload coming into /api/assistant/chat.
type ChatRequest struct {
	SessionID      string `json:"session_id"`
	Text           string `json:"text" binding:"required"`
	OrganizerEmail string `json:"organizer_email"`
}

// AssistantHandler exposes the scheduling assistant over HTTP.
type AssistantHandler struct {
	Orchestrator scheduling.Orchestrator
}

func NewAssistantHandler(orchestrator scheduling.Orchestrator) *AssistantHandler {
	return &AssistantHandler{Orchestrator: orchestrator}
}

// ChatHandler processes one conversational turn.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("invalid chat request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	result, err := h.Orchestrator.ProcessMessage(c.Request.Context(), req.SessionID, req.Text, req.OrganizerEmail)
	if err != nil {
		logger.Error("turn processing failed", zap.String("sessionId", req.SessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": req.SessionID,
		"result":     result,
	})
}

// GetSessionHandler returns the stored conversation state for debugging
// and client resync.
func (h *AssistantHandler) GetSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")
	session, err := h.Orchestrator.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load session", "")
		return
	}
	if session == nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", "")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ClearSessionHandler discards a conversation entirely.
func (h *AssistantHandler) ClearSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.Orchestrator.ClearSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to clear session", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
