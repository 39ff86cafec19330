package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/services"
	"gymdesk/internal/store"
)

// statsCacheKey and statsCacheTTL bound how stale the dashboard may be
const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 5 * time.Minute
)

// DashboardHandler serves the member-base summary
type DashboardHandler struct {
	store *store.Store
	cache *services.RedisCache
}

// NewDashboardHandler creates a new DashboardHandler. cache may be nil,
// in which case stats are computed on every request.
func NewDashboardHandler(s *store.Store, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{store: s, cache: cache}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	fetch := func() (store.Stats, error) {
		return h.store.CustomerStats(ctx, time.Now())
	}

	var stats store.Stats
	var err error
	if h.cache != nil {
		stats, err = services.GetOrSet(h.cache, ctx, statsCacheKey, statsCacheTTL, fetch)
	} else {
		stats, err = fetch()
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
