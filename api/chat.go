package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

type chatRequest struct {
	Message string `json:"message"`
}

// handleChat always answers 200 once the message is accepted; failures
// inside the request are part of the reply.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	reply, err := s.chat.HandleMessage(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.observeChat(string(reply.Operation), string(reply.Outcome))

	c.JSON(http.StatusOK, envelope{
		Success:           reply.Outcome != contractx.OutcomeError,
		Data:              reply,
		UserFacingMessage: reply.Message,
	})
}
