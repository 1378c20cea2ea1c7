package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

type stateResponse struct {
	entity.Board
	entity.Roster
}

func (that *Server) index(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"Title":      pageTitle,
		"SocketPort": that.socketPort,
	})
}

// state - the authoritative board plus who is sitting where.
func (that *Server) state(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, stateResponse{
		Board:  that.coordinator.Snapshot(),
		Roster: that.coordinator.Roster(),
	})
}

func (that *Server) listHistory(ctx *gin.Context) {
	log := that.logger.With("method", "listHistory")

	entries, err := that.history.List(ctx.Request.Context())
	if err != nil {
		log.Error("failed to list history", "error", err)
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "history is unavailable"})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"entries": entries})
}
