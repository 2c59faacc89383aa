// Package site serves the embedded landing page for the service.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded landing page to mux. The file server owns
// the root pattern, so paths no other handler claims get its 404 handling.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
