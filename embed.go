package pubfolio

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// folio.js (live search box)
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
