package wishwall

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// wishwall.js (react/delete/form wiring) and style.css. They are served
// under /public/ ahead of the deployment's own static dir, so either can be
// overridden by custom routes.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
