package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stormteams/AIChat-sub000/internal/chat"
)

// chatRequest is the POST /agents/:agent/chat request body.
type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// selectedEntry is the wire form of a selected knowledge entry.
type selectedEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// chatResponse is the chat reply payload.
type chatResponse struct {
	Reply    string          `json:"reply"`
	Selected []selectedEntry `json:"selected"`
	Keywords []string        `json:"keywords,omitempty"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleChat runs the chat pipeline for one message.
func (s *Server) handleChat(c echo.Context) error {
	agentID := c.Param("agent")

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	resp, err := s.chat.Respond(c.Request().Context(), chat.Request{
		AgentID: agentID,
		UserID:  req.UserID,
		Message: req.Message,
	})
	if err != nil {
		s.logger.Error("chat pipeline failed",
			zap.String("agent_id", agentID),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusBadGateway, "failed to generate reply")
	}

	selected := make([]selectedEntry, 0, len(resp.Selected))
	for _, e := range resp.Selected {
		selected = append(selected, selectedEntry{ID: e.ID, Title: e.Title})
	}

	return c.JSON(http.StatusOK, chatResponse{
		Reply:    resp.Reply,
		Selected: selected,
		Keywords: resp.Keywords,
	})
}

// handleProfile returns the stored profile document for a user.
func (s *Server) handleProfile(c echo.Context) error {
	userID := c.Param("user")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user is required")
	}

	p, err := s.chat.GetProfile(c.Request().Context(), userID)
	if err != nil {
		s.logger.Error("profile lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load profile")
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode profile")
	}
	return c.JSONBlob(http.StatusOK, doc)
}
