// Package router registers every route on a Go 1.22 ServeMux and wraps it
// in the middleware chain.
//
// Route table:
//
//	GET    /                → usage summary (text/plain)
//	GET    /students        → list all students
//	POST   /students        → create a new student
//	GET    /students/{id}   → get one student by id
//	PUT    /students/{id}   → partially update a student
//	DELETE /students/{id}   → delete a student
package router

import (
	"log/slog"
	"net/http"

	"github.com/students-demo/students-api/internal/http/handlers/student"
	"github.com/students-demo/students-api/internal/http/links"
	"github.com/students-demo/students-api/internal/http/middleware"
	"github.com/students-demo/students-api/internal/storage"
)

// New builds the application's http.Handler.
func New(s storage.Storage, baseURL string, log *slog.Logger) http.Handler {
	h := student.NewHandler(s, links.NewAssembler(baseURL), log)

	mux := http.NewServeMux()

	// "GET /{$}" matches only the root, not every unmatched path.
	mux.HandleFunc("GET /{$}", h.Home())
	mux.HandleFunc("GET "+links.CollectionPath, h.List())
	mux.HandleFunc("POST "+links.CollectionPath, h.Create())
	mux.HandleFunc("GET "+links.CollectionPath+"/{id}", h.GetByID())
	mux.HandleFunc("PUT "+links.CollectionPath+"/{id}", h.Update())
	mux.HandleFunc("DELETE "+links.CollectionPath+"/{id}", h.Delete())

	return middleware.Chain(mux,
		middleware.WithRequestID(),
		middleware.Logging(log),
		middleware.Recover(log),
	)
}
