package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*.html static/*.css
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Only possible if the embed directive and the directory diverge.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
