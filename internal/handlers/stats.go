package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workdeck/avatarproxy/internal/avatar"
	"github.com/workdeck/avatarproxy/internal/cache"
)

type statsResponse struct {
	Cache         cache.Stats         `json:"cache"`
	Refresh       avatar.RefreshStats `json:"refresh"`
	CacheHitRatio float64             `json:"cache_hit_ratio"`
}

// StatsHandler exposes a JSON snapshot of cache and refresh activity.
type StatsHandler struct {
	svc *avatar.Service
}

func NewStatsHandler(svc *avatar.Service) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Get(c *gin.Context) {
	cs := h.svc.CacheStats()

	var ratio float64
	if total := cs.Hits + cs.Misses; total > 0 {
		ratio = float64(cs.Hits) / float64(total) * 100
	}

	c.JSON(http.StatusOK, statsResponse{
		Cache:         cs,
		Refresh:       h.svc.RefreshStats(),
		CacheHitRatio: ratio,
	})
}
