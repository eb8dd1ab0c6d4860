package wishwall

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxGreetingFileSize = 50 << 20 // 50MB

// Exact MIME allow-lists for greeting media. The family prefix check alone
// is insufficient: image/bmp passes the prefix but must be rejected.
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
	"video/x-msvideo": true,
}

// handleSubmitGreeting validates and persists a single greeting. Notes store
// the submitted text verbatim; photos and videos are written to blob storage
// first and the row stores the retrieval path. The blob write and the row
// insert are not transactional: a crash in between leaves an orphaned blob,
// which is accepted and never reconciled.
func (a *App) handleSubmitGreeting(c echo.Context) error {
	kind := c.FormValue("type")
	if kind == "" {
		return errBadRequest("Type is required")
	}
	if kind != GreetingNote && kind != GreetingPhoto && kind != GreetingVideo {
		return errBadRequest("Type must be note, photo, or video")
	}

	page, err := a.Store.GetPageByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errPageNotFound()
		}
		return errInternal("Failed to submit greeting", err)
	}

	var content string
	if kind == GreetingNote {
		content = c.FormValue("content")
		if content == "" {
			return errBadRequest("Content is required for text notes")
		}
	} else {
		fh, err := c.FormFile("file")
		if err != nil {
			return errBadRequest(fmt.Sprintf("File is required for %s", kind))
		}
		if fh.Size > maxGreetingFileSize {
			return errBadRequest("File size must be less than 50MB")
		}
		contentType := fh.Header.Get("Content-Type")
		if kind == GreetingPhoto {
			if !strings.HasPrefix(contentType, "image/") {
				return errBadRequest("Invalid file type for photo. Please upload an image file.")
			}
			if !allowedPhotoTypes[contentType] {
				return errBadRequest("Only JPEG, PNG, GIF, and WebP images are supported")
			}
		} else {
			if !strings.HasPrefix(contentType, "video/") {
				return errBadRequest("Invalid file type for video. Please upload a video file.")
			}
			if !allowedVideoTypes[contentType] {
				return errBadRequest("Only MP4, MOV, WebM, and AVI videos are supported")
			}
		}

		src, err := fh.Open()
		if err != nil {
			return errInternal("Failed to submit greeting", err)
		}
		content, err = a.Blobs.SaveGreetingMedia(src, fh.Filename)
		src.Close()
		if err != nil {
			return errInternal("Failed to submit greeting", err)
		}
	}

	greeting := Greeting{
		ID:             uuid.NewString(),
		BirthdayPageID: page.ID,
		Type:           kind,
		Content:        content,
		SenderName:     strings.TrimSpace(c.FormValue("senderName")),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := a.Store.CreateGreeting(greeting); err != nil {
		return errInternal("Failed to submit greeting", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"greeting": greeting,
	})
}
