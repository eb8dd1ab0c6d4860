package wishwall_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eringen/wishwall"
	"github.com/eringen/wishwall/views"
)

func newTestApp(t *testing.T) *wishwall.App {
	t.Helper()

	dir := t.TempDir()
	cfg := wishwall.Config{
		SiteName:      "Wishwall",
		BaseURL:       "http://example.com",
		DatabasePath:  filepath.Join(dir, "test.db"),
		StaticDir:     filepath.Join(dir, "public"),
		SessionSecret: "test-secret",
	}

	v := views.New(views.Config{SiteName: cfg.SiteName, BaseURL: cfg.BaseURL})
	app := wishwall.New(cfg, wishwall.ViewFuncs{
		Home:        v.Home,
		Wall:        v.Wall,
		SubmitForm:  v.SubmitForm,
		AdminPanel:  v.AdminPanel,
		NotFound:    v.NotFound,
		ServerError: v.ServerError,
	})
	require.NoError(t, app.Bootstrap())
	t.Cleanup(func() { app.Close() })
	return app
}

func do(app *wishwall.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

// csrfCookie fetches the home page to obtain a CSRF cookie. Form-encoded
// requests must echo its value back via header or form field.
func csrfCookie(t *testing.T, app *wishwall.App) *http.Cookie {
	t.Helper()
	rec := do(app, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			return c
		}
	}
	t.Fatal("no _csrf cookie issued")
	return nil
}

func attachCSRF(t *testing.T, app *wishwall.App, req *http.Request) {
	t.Helper()
	c := csrfCookie(t, app)
	req.AddCookie(c)
	req.Header.Set("X-CSRF-Token", c.Value)
}

type part struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// multipartBody builds a multipart form from plain fields plus file parts
// with explicit per-part Content-Type headers.
func multipartBody(t *testing.T, fields map[string]string, files []part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// postForm sends a multipart POST with a valid CSRF token attached.
func postForm(t *testing.T, app *wishwall.App, target string, fields map[string]string, files []part) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	attachCSRF(t, app, req)
	return do(app, req)
}

// deleteReq sends a DELETE with a valid CSRF token attached.
func deleteReq(t *testing.T, app *wishwall.App, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	attachCSRF(t, app, req)
	return do(app, req)
}

func jsonReq(method, target string, payload interface{}) *http.Request {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func createPage(t *testing.T, app *wishwall.App, name, date string) (token, adminToken string) {
	t.Helper()
	rec := postForm(t, app, "/api/birthday-pages", map[string]string{
		"name":         name,
		"birthdayDate": date,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["token"], resp["adminToken"]
}

func submitNote(t *testing.T, app *wishwall.App, token, content, sender string) string {
	t.Helper()
	rec := postForm(t, app, "/api/greetings/"+token, map[string]string{
		"type":       "note",
		"content":    content,
		"senderName": sender,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success  bool              `json:"success"`
		Greeting wishwall.Greeting `json:"greeting"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Greeting.ID
}

func apiError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["error"]
}

func TestFullPageLifecycle(t *testing.T) {
	app := newTestApp(t)

	token, adminToken := createPage(t, app, "Ana", "2025-05-01")
	require.Len(t, token, wishwall.PublicTokenLength)
	require.Len(t, adminToken, wishwall.AdminTokenLength)
	require.NotEqual(t, token, adminToken)

	greetingID := submitNote(t, app, token, "Happy bday!", "Bo")

	// The wall shows the note verbatim and hides the admin token.
	req := httptest.NewRequest(http.MethodGet, "/api/birthday-pages/"+token, nil)
	rec := do(app, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var wall struct {
		Page      wishwall.BirthdayPage `json:"page"`
		Greetings []wishwall.Greeting   `json:"greetings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wall))
	require.Equal(t, "Ana", wall.Page.Name)
	require.Len(t, wall.Greetings, 1)
	require.Equal(t, "Happy bday!", wall.Greetings[0].Content)
	require.Equal(t, "Bo", wall.Greetings[0].SenderName)
	require.NotContains(t, rec.Body.String(), adminToken)

	// React twice; the counter is additive.
	rec = do(app, jsonReq(http.MethodPost, "/api/greetings/react", map[string]string{"greetingId": greetingID}))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(app, jsonReq(http.MethodPost, "/api/greetings/react", map[string]string{"greetingId": greetingID}))
	require.Equal(t, http.StatusOK, rec.Code)
	var reactResp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reactResp))
	require.Equal(t, int64(2), reactResp["reactions"])

	// Moderate it away.
	rec = deleteReq(t, app, "/api/greetings/delete/"+greetingID+"?adminToken="+adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(app, httptest.NewRequest(http.MethodGet, "/api/birthday-pages/"+token, nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wall))
	require.Empty(t, wall.Greetings)
}

func TestCreatePageValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name    string
		fields  map[string]string
		wantErr string
	}{
		{"missing name", map[string]string{"birthdayDate": "2025-05-01"}, "Name and birthday date are required"},
		{"missing date", map[string]string{"name": "Ana"}, "Name and birthday date are required"},
		{"bad date", map[string]string{"name": "Ana", "birthdayDate": "May 1st"}, "Invalid birthday date. Use YYYY-MM-DD."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, app, "/api/birthday-pages", tc.fields, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tc.wantErr, apiError(t, rec))
		})
	}
}

func TestCreatePageWithCelebrantPhotos(t *testing.T) {
	app := newTestApp(t)

	rec := postForm(t, app, "/api/birthday-pages", map[string]string{
		"name":         "Ana",
		"birthdayDate": "2025-05-01",
	}, []part{
		{"photo-0", "a.png", "image/png", []byte("not a real png")},
		{"photo-1", "b.pdf", "application/pdf", []byte("skipped")},
		{"photo-2", "c.jpg", "image/jpeg", []byte("also saved")},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	wallRec := do(app, httptest.NewRequest(http.MethodGet, "/api/birthday-pages/"+resp["token"], nil))
	var wall struct {
		Page wishwall.BirthdayPage `json:"page"`
	}
	require.NoError(t, json.Unmarshal(wallRec.Body.Bytes(), &wall))
	require.Len(t, wall.Page.CelebrantPhotos, 2)
	for _, p := range wall.Page.CelebrantPhotos {
		require.True(t, strings.HasPrefix(p, "/uploads/celebrants/"+resp["token"]+"/"), p)
	}
}

func TestSubmitGreetingValidation(t *testing.T) {
	app := newTestApp(t)
	token, _ := createPage(t, app, "Ana", "2025-05-01")

	cases := []struct {
		name     string
		token    string
		fields   map[string]string
		files    []part
		wantCode int
		wantErr  string
	}{
		{
			"missing type", token,
			map[string]string{"content": "hi"}, nil,
			http.StatusBadRequest, "Type is required",
		},
		{
			"bad type", token,
			map[string]string{"type": "song"}, nil,
			http.StatusBadRequest, "Type must be note, photo, or video",
		},
		{
			"unknown token", "nosuchtok1",
			map[string]string{"type": "note", "content": "hi"}, nil,
			http.StatusNotFound, "Birthday page not found",
		},
		{
			"empty note", token,
			map[string]string{"type": "note"}, nil,
			http.StatusBadRequest, "Content is required for text notes",
		},
		{
			"photo without file", token,
			map[string]string{"type": "photo"}, nil,
			http.StatusBadRequest, "File is required for photo",
		},
		{
			"photo with non-image file", token,
			map[string]string{"type": "photo"},
			[]part{{"file", "doc.pdf", "application/pdf", []byte("x")}},
			http.StatusBadRequest, "Invalid file type for photo. Please upload an image file.",
		},
		{
			"photo outside allow-list", token,
			map[string]string{"type": "photo"},
			[]part{{"file", "pic.bmp", "image/bmp", []byte("x")}},
			http.StatusBadRequest, "Only JPEG, PNG, GIF, and WebP images are supported",
		},
		{
			"video with non-video file", token,
			map[string]string{"type": "video"},
			[]part{{"file", "pic.png", "image/png", []byte("x")}},
			http.StatusBadRequest, "Invalid file type for video. Please upload a video file.",
		},
		{
			"video outside allow-list", token,
			map[string]string{"type": "video"},
			[]part{{"file", "clip.mkv", "video/x-matroska", []byte("x")}},
			http.StatusBadRequest, "Only MP4, MOV, WebM, and AVI videos are supported",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, app, "/api/greetings/"+tc.token, tc.fields, tc.files)
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			require.Equal(t, tc.wantErr, apiError(t, rec))
		})
	}
}

func TestSubmitGreetingOversizeFile(t *testing.T) {
	app := newTestApp(t)
	token, _ := createPage(t, app, "Ana", "2025-05-01")

	rec := postForm(t, app, "/api/greetings/"+token, map[string]string{"type": "photo"}, []part{
		{"file", "huge.jpg", "image/jpeg", bytes.Repeat([]byte("a"), 50<<20+1)},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "File size must be less than 50MB", apiError(t, rec))

	// Rejection happens before any blob is written.
	entries, err := os.ReadDir(filepath.Join(app.Config.StaticDir, "uploads"))
	if err == nil {
		require.Empty(t, entries)
	} else {
		require.True(t, os.IsNotExist(err))
	}
}

func TestSubmitPhotoGreeting(t *testing.T) {
	app := newTestApp(t)
	token, _ := createPage(t, app, "Ana", "2025-05-01")

	rec := postForm(t, app, "/api/greetings/"+token, map[string]string{
		"type":       "photo",
		"senderName": "Bo",
	}, []part{
		{"file", "party.webp", "image/webp", []byte("webp bytes")},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success  bool              `json:"success"`
		Greeting wishwall.Greeting `json:"greeting"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.True(t, strings.HasPrefix(resp.Greeting.Content, "/uploads/"), resp.Greeting.Content)
	require.True(t, strings.HasSuffix(resp.Greeting.Content, ".webp"), resp.Greeting.Content)

	blob := filepath.Join(app.Config.StaticDir, strings.TrimPrefix(resp.Greeting.Content, "/"))
	data, err := os.ReadFile(blob)
	require.NoError(t, err)
	require.Equal(t, "webp bytes", string(data))

	// The stored path is retrievable over HTTP.
	getRec := do(app, httptest.NewRequest(http.MethodGet, resp.Greeting.Content, nil))
	require.Equal(t, http.StatusOK, getRec.Code)
	body, err := io.ReadAll(getRec.Body)
	require.NoError(t, err)
	require.Equal(t, "webp bytes", string(body))
}

func TestDeleteGreetingAuth(t *testing.T) {
	app := newTestApp(t)
	token, adminToken := createPage(t, app, "Ana", "2025-05-01")
	greetingID := submitNote(t, app, token, "hello", "")

	// Missing token.
	rec := deleteReq(t, app, "/api/greetings/delete/"+greetingID)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Admin token required", apiError(t, rec))

	// Wrong token leaves the greeting in place.
	rec = deleteReq(t, app, "/api/greetings/delete/"+greetingID+"?adminToken=wrongwrongwrong1")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid admin token", apiError(t, rec))

	wallRec := do(app, httptest.NewRequest(http.MethodGet, "/api/birthday-pages/"+token, nil))
	var wall struct {
		Greetings []wishwall.Greeting `json:"greetings"`
	}
	require.NoError(t, json.Unmarshal(wallRec.Body.Bytes(), &wall))
	require.Len(t, wall.Greetings, 1)

	// Unknown greeting.
	rec = deleteReq(t, app, "/api/greetings/delete/nope?adminToken="+adminToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Greeting not found", apiError(t, rec))

	// Correct token succeeds.
	rec = deleteReq(t, app, "/api/greetings/delete/"+greetingID+"?adminToken="+adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteMediaGreetingRemovesBlob(t *testing.T) {
	app := newTestApp(t)
	token, adminToken := createPage(t, app, "Ana", "2025-05-01")

	rec := postForm(t, app, "/api/greetings/"+token, map[string]string{"type": "photo"}, []part{
		{"file", "party.png", "image/png", []byte("png bytes")},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Greeting wishwall.Greeting `json:"greeting"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	blob := filepath.Join(app.Config.StaticDir, strings.TrimPrefix(resp.Greeting.Content, "/"))
	_, err := os.Stat(blob)
	require.NoError(t, err)

	rec = deleteReq(t, app, "/api/greetings/delete/"+resp.Greeting.ID+"?adminToken="+adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = os.Stat(blob)
	require.True(t, os.IsNotExist(err))
}

func TestReactValidation(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, jsonReq(http.MethodPost, "/api/greetings/react", map[string]string{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Greeting ID is required", apiError(t, rec))

	rec = do(app, jsonReq(http.MethodPost, "/api/greetings/react", map[string]string{"greetingId": "missing"}))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Greeting not found", apiError(t, rec))
}

func TestReactionStateRendersFromSession(t *testing.T) {
	app := newTestApp(t)
	token, _ := createPage(t, app, "Ana", "2025-05-01")
	greetingID := submitNote(t, app, token, "hello", "Bo")

	// A fresh browser sees no reacted state.
	rec := do(app, httptest.NewRequest(http.MethodGet, "/b/"+token+"/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), `class="reacted"`)

	reactRec := do(app, jsonReq(http.MethodPost, "/api/greetings/react", map[string]string{"greetingId": greetingID}))
	require.Equal(t, http.StatusOK, reactRec.Code)

	// The same browser, carrying the session cookie, sees its reaction.
	req := httptest.NewRequest(http.MethodGet, "/b/"+token+"/", nil)
	for _, c := range reactRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = do(app, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `class="reacted"`)
}

func TestCSRFRequiredForFormRequests(t *testing.T) {
	app := newTestApp(t)
	token, adminToken := createPage(t, app, "Ana", "2025-05-01")
	greetingID := submitNote(t, app, token, "hello", "")

	// Form POST without a token is rejected before the handler runs.
	body, contentType := multipartBody(t, map[string]string{
		"name":         "Eve",
		"birthdayDate": "2025-05-01",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/birthday-pages", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(app, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid CSRF token", apiError(t, rec))

	// So is a DELETE, even with a valid admin token.
	req = httptest.NewRequest(http.MethodDelete, "/api/greetings/delete/"+greetingID+"?adminToken="+adminToken, nil)
	rec = do(app, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	wallRec := do(app, httptest.NewRequest(http.MethodGet, "/api/birthday-pages/"+token, nil))
	var wall struct {
		Greetings []wishwall.Greeting `json:"greetings"`
	}
	require.NoError(t, json.Unmarshal(wallRec.Body.Bytes(), &wall))
	require.Len(t, wall.Greetings, 1)
}

func TestHTMLPages(t *testing.T) {
	app := newTestApp(t)
	token, adminToken := createPage(t, app, "Ana", "2025-05-01")
	submitNote(t, app, token, "Happy bday!", "Bo")

	rec := do(app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(app, httptest.NewRequest(http.MethodGet, "/b/"+token+"/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Happy bday!")
	require.NotContains(t, rec.Body.String(), adminToken)

	rec = do(app, httptest.NewRequest(http.MethodGet, "/b/"+token+"/submit/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(app, httptest.NewRequest(http.MethodGet, "/admin/"+adminToken+"/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Happy bday!")

	rec = do(app, httptest.NewRequest(http.MethodGet, "/b/nosuchtok1/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(app, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Disallow: /b/")
}

func TestAnonymousSenderDisplay(t *testing.T) {
	g := wishwall.Greeting{}
	require.Equal(t, "Anonymous", g.DisplaySender())
	g.SenderName = "Bo"
	require.Equal(t, "Bo", g.DisplaySender())
}
