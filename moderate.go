package wishwall

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleDeleteGreeting permanently removes a greeting on behalf of the
// page's admin-token holder. For media greetings the backing blob is
// unlinked best-effort first: a failed unlink is logged and swallowed so the
// visible list always loses the entry even when storage hygiene suffers.
func (a *App) handleDeleteGreeting(c echo.Context) error {
	adminToken := c.QueryParam("adminToken")
	if adminToken == "" {
		return errUnauthorized("Admin token required")
	}

	greeting, err := a.Store.GetGreeting(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errGreetingNotFound()
		}
		return errInternal("Failed to delete greeting", err)
	}

	page, err := a.Store.GetPageByID(greeting.BirthdayPageID)
	if err != nil {
		return errInternal("Failed to delete greeting", err)
	}
	if subtle.ConstantTimeCompare([]byte(page.AdminToken), []byte(adminToken)) != 1 {
		return errForbidden("Invalid admin token")
	}

	if greeting.Type == GreetingPhoto || greeting.Type == GreetingVideo {
		if err := a.Blobs.Delete(greeting.Content); err != nil {
			a.log.Warn("greeting blob delete failed", "greeting", greeting.ID, "path", greeting.Content, "err", err)
		}
	}

	if err := a.Store.DeleteGreeting(greeting.ID); err != nil {
		return errInternal("Failed to delete greeting", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
