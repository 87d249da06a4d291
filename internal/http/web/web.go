// Package web embeds the single browser page served at "/".
package web

import _ "embed"

//go:embed index.html
var indexHTML []byte

// Index returns the page markup.
func Index() []byte {
	return indexHTML
}
