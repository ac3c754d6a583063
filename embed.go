package lodge

import "embed"

// EmbeddedAssets holds the stylesheet shipped inside the binary and served
// at /public/site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
