package wishwall

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	maxCelebrantPhotos    = 5
	maxCelebrantPhotoSize = 10 << 20 // 10MB
)

// handleCreatePage creates a birthday page from a multipart form: name,
// birthdayDate, optional title, and up to five celebrant photos. It returns
// the public and admin tokens the owner needs to share and moderate the wall.
func (a *App) handleCreatePage(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	title := strings.TrimSpace(c.FormValue("title"))
	birthdayDate := strings.TrimSpace(c.FormValue("birthdayDate"))

	if name == "" || birthdayDate == "" {
		return errBadRequest("Name and birthday date are required")
	}
	if _, err := time.Parse("2006-01-02", birthdayDate); err != nil {
		return errBadRequest("Invalid birthday date. Use YYYY-MM-DD.")
	}

	token := NewToken(PublicTokenLength)
	adminToken := NewToken(AdminTokenLength)

	photos, err := a.saveCelebrantPhotos(c, token)
	if err != nil {
		return errInternal("Failed to create birthday page", err)
	}

	page := BirthdayPage{
		ID:              uuid.NewString(),
		Name:            name,
		Title:           title,
		BirthdayDate:    birthdayDate,
		Token:           token,
		AdminToken:      adminToken,
		CelebrantPhotos: photos,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.Store.CreatePage(page); err != nil {
		return errInternal("Failed to create birthday page", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":         page.ID,
		"token":      page.Token,
		"adminToken": page.AdminToken,
	})
}

// saveCelebrantPhotos stores up to maxCelebrantPhotos uploads from the
// photo-0..photo-4 form fields. Files that are missing, oversized, or not
// images are skipped silently; only a storage failure aborts creation.
func (a *App) saveCelebrantPhotos(c echo.Context, token string) ([]string, error) {
	var photos []string
	for i := 0; i < maxCelebrantPhotos; i++ {
		fh, err := c.FormFile(fmt.Sprintf("photo-%d", i))
		if err != nil {
			continue
		}
		if fh.Size > maxCelebrantPhotoSize {
			continue
		}
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			continue
		}

		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, err
		}

		path, err := a.Blobs.SaveCelebrantPhoto(token, bytes.NewReader(data), fh.Filename)
		if err != nil {
			return nil, err
		}
		photos = append(photos, path)

		// The thumbnail only feeds the wall's photo strip; a photo that
		// decodes poorly still keeps its original.
		if thumb, err := makeThumbnail(data); err == nil {
			if _, err := a.Blobs.SaveCelebrantThumb(path, thumb); err != nil {
				a.log.Warn("celebrant thumbnail write failed", "path", path, "err", err)
			}
		}
	}
	return photos, nil
}

// handleWallJSON returns a wall and its greetings, newest first.
func (a *App) handleWallJSON(c echo.Context) error {
	page, greetings, err := a.loadWall(c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"page":      page,
		"greetings": greetings,
	})
}

func (a *App) handleHome(c echo.Context) error {
	return Render(c, a.Views.Home(CsrfToken(c)))
}

func (a *App) handleWall(c echo.Context) error {
	page, greetings, err := a.loadWall(c.Param("token"))
	if err != nil {
		return err
	}
	shareURL := BuildURL(a.Config.BaseURL, "b", page.Token, "submit")
	return Render(c, a.Views.Wall(page, greetings, reactedSet(c), shareURL, CsrfToken(c)))
}

func (a *App) handleSubmitForm(c echo.Context) error {
	page, err := a.Store.GetPageByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errPageNotFound()
		}
		return errInternal("Failed to load birthday page", err)
	}
	return Render(c, a.Views.SubmitForm(page, CsrfToken(c)))
}

func (a *App) handleAdminPanel(c echo.Context) error {
	page, err := a.Store.GetPageByAdminToken(c.Param("adminToken"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errPageNotFound()
		}
		return errInternal("Failed to load birthday page", err)
	}
	greetings, err := a.Store.ListGreetings(page.ID)
	if err != nil {
		return errInternal("Failed to load greetings", err)
	}
	return Render(c, a.Views.AdminPanel(page, greetings, CsrfToken(c)))
}

func (a *App) loadWall(token string) (BirthdayPage, []Greeting, error) {
	page, err := a.Store.GetPageByToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BirthdayPage{}, nil, errPageNotFound()
		}
		return BirthdayPage{}, nil, errInternal("Failed to load birthday page", err)
	}
	greetings, err := a.Store.ListGreetings(page.ID)
	if err != nil {
		return BirthdayPage{}, nil, errInternal("Failed to load greetings", err)
	}
	return page, greetings, nil
}
