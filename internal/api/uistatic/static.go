// Package uistatic embeds the single-page question console served on
// non-API routes.
package uistatic

import (
	"embed"
	"io"
	"net/http"
)

//go:embed index.html
var consoleFS embed.FS

func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		index, err := consoleFS.Open("index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer func() { _ = index.Close() }()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.Copy(w, index)
	})
}
