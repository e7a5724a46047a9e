package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/biobalance/admin/internal/auth"
	"github.com/biobalance/admin/internal/services"
	"github.com/biobalance/admin/internal/storage"
	"github.com/biobalance/admin/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Exporter interface {
	Export(ctx context.Context, dataset types.ExportDataset) (types.ExportResult, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

// ExportHandler writes and lists dataset snapshots in object storage.
type ExportHandler struct {
	exports Exporter
	audit   AuditRecorder
	log     *zap.Logger
}

func NewExportHandler(exports Exporter, audit AuditRecorder, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, audit: audit, log: logger}
}

// ExportRouter registers export routes on the given router.
func ExportRouter(r chi.Router, h *ExportHandler) {
	r.Get("/", h.ListExports)
	r.Post("/", h.CreateExport)
}

type ExportRequest struct {
	Dataset types.ExportDataset `json:"dataset"`
}

type ExportListResponse struct {
	Exports []storage.ObjectInfo `json:"exports"`
}

func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.exports.Export(r.Context(), req.Dataset)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownDataset):
			writeError(w, http.StatusBadRequest, "dataset must be one of users, meals, recipes, stats, chats")
		case errors.Is(err, services.ErrExportsDisabled):
			writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		default:
			h.log.Error("export", zap.String("dataset", string(req.Dataset)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to write export")
		}
		return
	}

	actor := ""
	if cred, ok := auth.CredentialFromContext(r.Context()); ok {
		actor = cred.Subject
	}
	h.audit.Record(r.Context(), types.AuditExportWritten, actor, map[string]string{
		"dataset": string(result.Dataset),
		"key":     result.Key,
		"rows":    strconv.Itoa(result.Rows),
	})
	writeJSON(w, http.StatusCreated, result)
}

func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	objects, err := h.exports.List(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrExportsDisabled) {
			writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
			return
		}
		h.log.Error("list exports", zap.Error(err))
		objects = []storage.ObjectInfo{}
	}
	writeJSON(w, http.StatusOK, ExportListResponse{Exports: objects})
}
