package wishwall

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type reactRequest struct {
	GreetingID string `json:"greetingId"`
}

// handleReact increments a greeting's reaction counter by exactly one. The
// increment is a single UPDATE at the storage layer, so concurrent reactions
// to the same greeting are all reflected. There is no server-side dedup; the
// cookie session only records advisory per-browser state for rendering.
func (a *App) handleReact(c echo.Context) error {
	var req reactRequest
	if err := c.Bind(&req); err != nil || req.GreetingID == "" {
		return errBadRequest("Greeting ID is required")
	}

	reactions, err := a.Store.AddReaction(req.GreetingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errGreetingNotFound()
		}
		return errInternal("Failed to update reactions", err)
	}

	if err := markReacted(c, req.GreetingID); err != nil {
		a.log.Debug("reacted session update failed", "greeting", req.GreetingID, "err", err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"reactions": reactions})
}
