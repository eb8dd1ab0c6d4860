// Package views renders the default wishwall pages: the create form, the
// public wall, the submission form, and the admin panel. Every page is
// exposed as a templ.Component so deployments can swap in their own
// components through wishwall.ViewFuncs.
package views

import (
	"context"
	"html/template"
	"io"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/wishwall"
)

// Config holds the site-wide values the templates read.
type Config struct {
	SiteName string
	BaseURL  string
}

// Views renders the built-in page set.
type Views struct {
	cfg Config
	t   *template.Template
}

// New parses the built-in templates and returns a Views ready for wiring
// into wishwall.ViewFuncs.
func New(cfg Config) *Views {
	t := template.New("wishwall").Funcs(template.FuncMap{
		"thumb": thumbPath,
	})
	template.Must(t.Parse(layoutTmpl))
	template.Must(t.Parse(homeTmpl))
	template.Must(t.Parse(wallTmpl))
	template.Must(t.Parse(submitTmpl))
	template.Must(t.Parse(adminTmpl))
	template.Must(t.Parse(notFoundTmpl))
	template.Must(t.Parse(serverErrorTmpl))
	return &Views{cfg: cfg, t: t}
}

// component wraps a named template execution as a templ.Component.
func (v *Views) component(name string, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return v.t.ExecuteTemplate(w, name, data)
	})
}

type homeData struct {
	SiteName  string
	CSRFToken string
}

// Home renders the landing page with the create-a-wall form.
func (v *Views) Home(csrfToken string) templ.Component {
	return v.component("home", homeData{SiteName: v.cfg.SiteName, CSRFToken: csrfToken})
}

type wallData struct {
	SiteName  string
	Page      wishwall.BirthdayPage
	Greetings []wishwall.Greeting
	Reacted   map[string]bool
	ShareURL  string
	CSRFToken string
}

// Wall renders the public wall: celebrant photo strip, greeting gallery
// newest first, reaction buttons, and the share link.
func (v *Views) Wall(page wishwall.BirthdayPage, greetings []wishwall.Greeting, reacted map[string]bool, shareURL, csrfToken string) templ.Component {
	return v.component("wall", wallData{
		SiteName:  v.cfg.SiteName,
		Page:      page,
		Greetings: greetings,
		Reacted:   reacted,
		ShareURL:  shareURL,
		CSRFToken: csrfToken,
	})
}

type submitData struct {
	SiteName  string
	Page      wishwall.BirthdayPage
	CSRFToken string
}

// SubmitForm renders the greeting submission form for a wall.
func (v *Views) SubmitForm(page wishwall.BirthdayPage, csrfToken string) templ.Component {
	return v.component("submit", submitData{SiteName: v.cfg.SiteName, Page: page, CSRFToken: csrfToken})
}

type adminData struct {
	SiteName  string
	Page      wishwall.BirthdayPage
	Greetings []wishwall.Greeting
	CSRFToken string
}

// AdminPanel renders the moderation panel for the admin-token holder.
func (v *Views) AdminPanel(page wishwall.BirthdayPage, greetings []wishwall.Greeting, csrfToken string) templ.Component {
	return v.component("admin", adminData{SiteName: v.cfg.SiteName, Page: page, Greetings: greetings, CSRFToken: csrfToken})
}

type statusData struct {
	SiteName string
}

// NotFound renders the styled 404 page.
func (v *Views) NotFound() templ.Component {
	return v.component("not_found", statusData{SiteName: v.cfg.SiteName})
}

// ServerError renders the styled 500 page.
func (v *Views) ServerError() templ.Component {
	return v.component("server_error", statusData{SiteName: v.cfg.SiteName})
}

// thumbPath maps a celebrant photo path to its thumbnail variant.
func thumbPath(photo string) string {
	ext := filepath.Ext(photo)
	return strings.TrimSuffix(photo, ext) + "_thumb.jpg"
}
