package http

import (
	_ "embed"
	"net/http"

	"github.com/gorilla/mux"
)

//go:embed index.html
var indexPage []byte

func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ask", h.Ask).Methods(http.MethodPost)
	r.HandleFunc("/faculties", h.Faculties).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)

	return r
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}
