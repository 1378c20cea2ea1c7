package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (that *Server) ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}
