package chatd

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/sentinel-x/internal/streamevent"
	"github.com/kart-io/sentinel-x/pkg/errors"
	"github.com/kart-io/sentinel-x/pkg/response"
	httptransport "github.com/kart-io/sentinel-x/pkg/server/transport/http"
)

// chatRequest is the body a caller posts to start or continue a turn.
type chatRequest struct {
	ConversationID  *string `json:"conversation_id,omitempty"`
	Text            string  `json:"text" binding:"required"`
	PersonalityName *string `json:"personality,omitempty"`
}

// handleChat streams one conversational turn as a sequence of newline-
// delimited streamevent.Event values.
//
// @Summary      Send a chat turn
// @Description  Classifies, routes and answers one message, streaming the
// @Description  response as newline-delimited JSON events.
// @Tags         chat
// @Accept       json
// @Produce      application/x-ndjson
// @Param        request body chatRequest true "turn request"
// @Success      200 {object} streamevent.Event
// @Failure      400 {object} response.Response
// @Failure      401 {object} response.Response
// @Failure      429 {object} response.Response
// @Router       /v1/chat [post]
func (a *App) handleChat(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		rc := httptransport.NewRequestContext(c.Request, c.Writer)
		response.Fail(rc, errors.ErrUnauthorized)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rc := httptransport.NewRequestContext(c.Request, c.Writer)
		response.FailWithBindOrValidation(rc, err)
		return
	}

	ctx := c.Request.Context()
	userID, err := a.users.Resolve(ctx, claims.Subject)
	if err != nil {
		rc := httptransport.NewRequestContext(c.Request, c.Writer)
		response.FailWithError(rc, err)
		return
	}

	w := streamevent.NewWriter(c)
	if err := a.orch.HandleTurn(ctx, w, userID, req.ConversationID, req.Text, req.PersonalityName); err != nil {
		w.Emit(streamevent.Error(err.Error()))
	}
}

// handleHealthz reports liveness plus each wired dependency's reachability
// rather than a bare 200, surfacing per-component status the way other
// health endpoints in this codebase do.
//
// @Summary  Health check
// @Tags     ops
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /healthz [get]
func (a *App) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"postgres": checkErr(a.pg.Ping(ctx)),
		"redis":    checkErr(a.redis.Ping(ctx)),
		"mongo":    checkErr(a.mongo.Ping(ctx)),
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(status, gin.H{"status": checks})
}

func checkErr(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
