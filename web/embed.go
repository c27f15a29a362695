// Package web embeds the static frontend served at the root path.
package web

import _ "embed"

// LoginPage is the minimal login form served at GET /.
//
//go:embed static/index.html
var LoginPage []byte
