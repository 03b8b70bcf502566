package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vauassist/university-rag/internal/llm"
	"github.com/vauassist/university-rag/internal/rag"
)

type Handler struct {
	ragService *rag.Service
	chain      *llm.Chain
	timeout    time.Duration
	logger     *zap.Logger
}

func NewHandler(ragService *rag.Service, chain *llm.Chain, timeout time.Duration, logger *zap.Logger) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		ragService: ragService,
		chain:      chain,
		timeout:    timeout,
		logger:     logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req rag.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp, err := h.ragService.Ask(ctx, req)
	if err != nil {
		h.writeAskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeAskError(w http.ResponseWriter, err error) {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(err, rag.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, rag.ErrEmptyIndex):
		writeError(w, http.StatusServiceUnavailable, "the knowledge base is empty; run the import command first")
	case errors.As(err, &genErr):
		h.logger.Error("generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "could not generate an answer right now; please try again later")
	default:
		h.logger.Error("ask failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) Faculties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"faculties": rag.Faculties(),
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.ragService.DocumentCount(r.Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents":     count,
		"providerOrder": h.chain.Providers(),
		"providerStats": h.chain.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
