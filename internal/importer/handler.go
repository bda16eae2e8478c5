package importer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/transport"
	"github.com/frahmantamala/money-ledger/pkg/logger"
)

type ServiceAPI interface {
	Import(ctx context.Context, ownerID int64, rows []RowRecord) (*Result, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	var rows []RowRecord
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		h.Logger.Error("Import: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Import(r.Context(), ownerID, rows)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
