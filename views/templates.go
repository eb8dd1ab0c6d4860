package views

// Built-in templates. Deployments that want full control provide their own
// components via wishwall.ViewFuncs instead of editing these.

const layoutTmpl = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}}</title>
<link rel="stylesheet" href="/public/style.css">
</head>
<body>{{end}}
{{define "foot"}}<script src="/public/wishwall.js" defer></script>
</body>
</html>{{end}}
`

const homeTmpl = `
{{define "home"}}{{template "head" .SiteName}}
<main class="container">
  <h1>{{.SiteName}}</h1>
  <p>Create a birthday wall, share the link, and collect greetings.</p>
  <form method="post" action="/api/birthday-pages" enctype="multipart/form-data" class="card">
    <input type="hidden" name="_csrf" value="{{.CSRFToken}}">
    <label>Celebrant name <input type="text" name="name" required></label>
    <label>Wall title (optional) <input type="text" name="title"></label>
    <label>Birthday <input type="date" name="birthdayDate" required></label>
    <label>Photos of the celebrant (up to 5)</label>
    <input type="file" name="photo-0" accept="image/*">
    <input type="file" name="photo-1" accept="image/*">
    <input type="file" name="photo-2" accept="image/*">
    <input type="file" name="photo-3" accept="image/*">
    <input type="file" name="photo-4" accept="image/*">
    <button type="submit">Create wall</button>
  </form>
</main>
{{template "foot"}}{{end}}
`

const wallTmpl = `
{{define "wall"}}{{template "head" .SiteName}}
<main class="container">
  <header class="wall-header">
    {{if .Page.Title}}<h1>{{.Page.Title}}</h1><p class="subtitle">{{.Page.Name}}</p>
    {{else}}<h1>{{.Page.Name}}&rsquo;s Birthday Wall</h1>{{end}}
    <p class="birthday-date">Birthday: {{.Page.BirthdayDate}}</p>
  </header>

  {{if .Page.CelebrantPhotos}}
  <section class="celebrant-photos">
    {{range .Page.CelebrantPhotos}}
    <a href="{{.}}"><img src="{{thumb .}}" alt="Celebrant photo" loading="lazy"></a>
    {{end}}
  </section>
  {{end}}

  <section class="share">
    <p>Invite friends to post a greeting:</p>
    <input type="text" readonly value="{{.ShareURL}}">
    <a class="button" href="/b/{{.Page.Token}}/submit/">Add your greeting</a>
  </section>

  <section class="greetings">
    {{if .Greetings}}
    <p class="count">{{len .Greetings}} greeting{{if ne (len .Greetings) 1}}s{{end}} shared</p>
    {{range .Greetings}}
    <article class="greeting greeting-{{.Type}}">
      {{if eq .Type "note"}}<p class="note">{{.Content}}</p>
      {{else if eq .Type "photo"}}<img src="{{.Content}}" alt="Greeting from {{.DisplaySender}}" loading="lazy">
      {{else}}<video src="{{.Content}}" controls preload="metadata"></video>{{end}}
      <footer>
        <span class="sender">{{.DisplaySender}}</span>
        <form method="post" action="/api/greetings/react" class="react-form" data-greeting="{{.ID}}">
          <input type="hidden" name="_csrf" value="{{$.CSRFToken}}">
          <button type="submit" {{if index $.Reacted .ID}}class="reacted"{{end}}>&hearts; {{.Reactions}}</button>
        </form>
      </footer>
    </article>
    {{end}}
    {{else}}
    <p class="empty">No greetings yet. Be the first!</p>
    {{end}}
  </section>
</main>
{{template "foot"}}{{end}}
`

const submitTmpl = `
{{define "submit"}}{{template "head" .SiteName}}
<main class="container">
  <h1>Send a greeting to {{.Page.Name}}</h1>
  <form method="post" action="/api/greetings/{{.Page.Token}}" enctype="multipart/form-data" class="card">
    <input type="hidden" name="_csrf" value="{{.CSRFToken}}">
    <label>Your name (optional) <input type="text" name="senderName"></label>
    <label>Type
      <select name="type">
        <option value="note">Note</option>
        <option value="photo">Photo</option>
        <option value="video">Video</option>
      </select>
    </label>
    <label>Message <textarea name="content" rows="4"></textarea></label>
    <label>Or upload a photo/video (max 50MB)
      <input type="file" name="file" accept="image/jpeg,image/png,image/gif,image/webp,video/mp4,video/quicktime,video/webm,video/x-msvideo">
    </label>
    <button type="submit">Post greeting</button>
  </form>
  <p><a href="/b/{{.Page.Token}}/">Back to the wall</a></p>
</main>
{{template "foot"}}{{end}}
`

const adminTmpl = `
{{define "admin"}}{{template "head" .SiteName}}
<main class="container">
  <header class="wall-header">
    <h1>Admin Panel</h1>
    <p class="subtitle">Manage greetings for {{.Page.Name}}&rsquo;s birthday wall</p>
    <p><a href="/b/{{.Page.Token}}/">Back to wall</a></p>
  </header>
  <section class="greetings">
    {{if .Greetings}}
    {{range .Greetings}}
    <article class="greeting greeting-{{.Type}}">
      {{if eq .Type "note"}}<p class="note">{{.Content}}</p>
      {{else if eq .Type "photo"}}<img src="{{.Content}}" alt="Greeting from {{.DisplaySender}}" loading="lazy">
      {{else}}<video src="{{.Content}}" controls preload="metadata"></video>{{end}}
      <footer>
        <span class="sender">{{.DisplaySender}}</span>
        <span class="reactions">&hearts; {{.Reactions}}</span>
        <form method="post" action="/api/greetings/delete/{{.ID}}?adminToken={{$.Page.AdminToken}}" class="delete-form" data-greeting="{{.ID}}">
          <input type="hidden" name="_csrf" value="{{$.CSRFToken}}">
          <button type="submit" class="danger">Delete</button>
        </form>
      </footer>
    </article>
    {{end}}
    {{else}}
    <p class="empty">Nothing to moderate yet.</p>
    {{end}}
  </section>
</main>
{{template "foot"}}{{end}}
`

const notFoundTmpl = `
{{define "not_found"}}{{template "head" .SiteName}}
<main class="container status-page">
  <h1>404</h1>
  <p>This wall doesn&rsquo;t exist. Check the link you were sent.</p>
  <p><a href="/">Create your own</a></p>
</main>
{{template "foot"}}{{end}}
`

const serverErrorTmpl = `
{{define "server_error"}}{{template "head" .SiteName}}
<main class="container status-page">
  <h1>Something went wrong</h1>
  <p>Try again in a moment.</p>
</main>
{{template "foot"}}{{end}}
`
