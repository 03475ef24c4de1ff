package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/screenlink/screenlink/internal/service"
)

type StatusController struct {
	sessions service.SessionInteractor
}

func NewStatusController(sessions service.SessionInteractor) *StatusController {
	return &StatusController{sessions: sessions}
}

func (c *StatusController) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

// Rooms returns the diagnostic room listing. Pure read, no side effects.
func (c *StatusController) Rooms(ctx *gin.Context) {
	rooms, err := c.sessions.ListRooms(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
