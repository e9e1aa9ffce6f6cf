package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/supporthub/support-desk/internal/repository"
)

const (
	statsCacheKey = "supdesk:dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

type statsSource interface {
	Snapshot(ctx context.Context) (*repository.DashboardStats, error)
}

// dashboardStatsHandler serves the aggregate snapshot with a short Redis
// cache in front. Without Redis every request hits MySQL, which is fine
// for development. Cache failures fall through to the database.
func dashboardStatsHandler(stats statsSource, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if rdb != nil {
			if raw, err := rdb.Get(ctx, statsCacheKey).Bytes(); err == nil {
				var cached repository.DashboardStats
				if json.Unmarshal(raw, &cached) == nil {
					return c.JSON(http.StatusOK, map[string]any{
						"success": true,
						"cached":  true,
						"stats":   cached,
					})
				}
			}
		}

		snap, err := stats.Snapshot(ctx)
		if err != nil {
			log.Errorf("stats snapshot failed: %v", err)
			return writeErr(c, err)
		}

		if rdb != nil {
			if raw, err := json.Marshal(snap); err == nil {
				if err := rdb.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
					log.Warnf("stats cache write failed: %v", err)
				}
			}
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"cached":  false,
			"stats":   snap,
		})
	}
}
