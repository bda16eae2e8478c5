package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/transport"
	"github.com/frahmantamala/money-ledger/pkg/logger"
)

type ServiceAPI interface {
	ResolveAccount(ctx context.Context, ownerID int64, rawName string) (*Account, bool, error)
	ResolveCategory(ctx context.Context, ownerID int64, rawName string) (*Category, bool, error)
	ResolveSubCategory(ctx context.Context, ownerID, categoryID int64, rawName string) (*SubCategory, bool, error)
	GetAccount(ctx context.Context, ownerID, id int64) (*Account, error)
	ListAccounts(ctx context.Context, ownerID int64) ([]*Account, error)
	ListCategories(ctx context.Context, ownerID int64) ([]*Category, error)
	ListSubCategories(ctx context.Context, ownerID, categoryID int64) ([]*SubCategory, error)
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

func (h *Handler) ResolveAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	var dto ResolveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ResolveAccount: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, created, err := h.Service.ResolveAccount(r.Context(), ownerID, dto.Name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, ResolveResponse{Created: created, Entity: account.ToResponse()})
}

func (h *Handler) ResolveCategory(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	var dto ResolveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ResolveCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, created, err := h.Service.ResolveCategory(r.Context(), ownerID, dto.Name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, ResolveResponse{Created: created, Entity: category.ToResponse()})
}

func (h *Handler) ResolveSubCategory(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	var dto ResolveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ResolveSubCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.CategoryID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "category_id is required")
		return
	}

	subCategory, created, err := h.Service.ResolveSubCategory(r.Context(), ownerID, dto.CategoryID, dto.Name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, ResolveResponse{Created: created, Entity: subCategory.ToResponse()})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	accountIDStr := chi.URLParam(r, "id")
	accountID, err := strconv.ParseInt(accountIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetAccount: invalid account ID", "id", accountIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid account ID")
		return
	}

	account, err := h.Service.GetAccount(r.Context(), ownerID, accountID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, account.ToResponse())
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	accounts, err := h.Service.ListAccounts(r.Context(), ownerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = account.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": responses})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	categories, err := h.Service.ListCategories(r.Context(), ownerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = category.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": responses})
}

func (h *Handler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.OwnerIDFromContext(r.Context())

	categoryIDStr := chi.URLParam(r, "id")
	categoryID, err := strconv.ParseInt(categoryIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("ListSubCategories: invalid category ID", "id", categoryIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	subCategories, err := h.Service.ListSubCategories(r.Context(), ownerID, categoryID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]SubCategoryResponse, len(subCategories))
	for i, subCategory := range subCategories {
		responses[i] = subCategory.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"sub_categories": responses})
}
