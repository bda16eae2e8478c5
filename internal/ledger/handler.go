package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/transport"
	"github.com/frahmantamala/money-ledger/pkg/logger"
)

type ServiceAPI interface {
	CreateTransaction(ctx context.Context, ownerID int64, dto TransactionDTO) (*Transaction, error)
	EditTransaction(ctx context.Context, ownerID, id int64, dto TransactionDTO) (*Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id int64) error
	GetTransaction(ctx context.Context, ownerID, id int64) (*TransactionResponse, error)
	ListTransactions(ctx context.Context, ownerID int64, filter Filter) ([]TransactionResponse, error)
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

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := h.Service.CreateTransaction(r.Context(), ownerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, transaction)
}

func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	id, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("EditTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := h.Service.EditTransaction(r.Context(), ownerID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transaction)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	id, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTransaction(r.Context(), ownerID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	id, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	transaction, err := h.Service.GetTransaction(r.Context(), ownerID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transaction)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		h.Logger.Error("ListTransactions: invalid filter", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.Service.ListTransactions(r.Context(), ownerID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

func (h *Handler) transactionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid transaction ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return 0, false
	}
	return id, true
}

func parseFilter(r *http.Request) (Filter, error) {
	query := r.URL.Query()
	filter := Filter{Kind: query.Get("kind")}

	if raw := query.Get("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, internal.NewValidationError("start_date must be RFC 3339", internal.ErrCodeInvalidDate)
		}
		filter.StartDate = &t
	}
	if raw := query.Get("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, internal.NewValidationError("end_date must be RFC 3339", internal.ErrCodeInvalidDate)
		}
		filter.EndDate = &t
	}
	if raw := query.Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, internal.NewValidationError("account_id must be an integer", internal.ErrCodeInvalidFilter)
		}
		filter.AccountID = &id
	}
	if raw := query.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, internal.NewValidationError("category_id must be an integer", internal.ErrCodeInvalidFilter)
		}
		filter.CategoryID = &id
	}
	if raw := query.Get("sub_category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, internal.NewValidationError("sub_category_id must be an integer", internal.ErrCodeInvalidFilter)
		}
		filter.SubCategoryID = &id
	}
	if raw := query.Get("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, internal.NewValidationError("min_amount must be a decimal", internal.ErrCodeInvalidAmount)
		}
		filter.MinAmount = &amount
	}
	if raw := query.Get("max_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, internal.NewValidationError("max_amount must be a decimal", internal.ErrCodeInvalidAmount)
		}
		filter.MaxAmount = &amount
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, internal.NewValidationError("limit must be a non-negative integer", internal.ErrCodeInvalidFilter)
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, internal.NewValidationError("offset must be a non-negative integer", internal.ErrCodeInvalidFilter)
		}
		filter.Offset = offset
	}
	return filter, nil
}
