package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports the state of the backing stores
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController creates a new HealthController. Nil checks are skipped.
func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string            `json:"status" example:"ok"`
	Components map[string]string `json:"components"`
}

// Health reports service health. A failing store degrades the service rather than failing it.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=HealthResponse} "Service health"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	resp := HealthResponse{Status: "ok", Components: make(map[string]string, len(c.checks))}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	for name, check := range c.checks {
		if check == nil {
			resp.Components[name] = "disabled"
			continue
		}
		if err := check.Ping(pingCtx); err != nil {
			resp.Components[name] = "unavailable"
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "ok"
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
