package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/codeshelf/coinledger/internal/handlers/render"
	"github.com/codeshelf/coinledger/internal/handlers/userctx"
	"github.com/codeshelf/coinledger/internal/logger"
	"github.com/codeshelf/coinledger/internal/repository"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type transactionItem struct {
	ID            uuid.UUID      `json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UserID        int64          `json:"userId"`
	Type          string         `json:"type"`
	Amount        int64          `json:"amount"`
	Reason        string         `json:"reason"`
	ReferenceID   *int64         `json:"referenceId,omitempty"`
	ReferenceType *string        `json:"referenceType,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int64 `json:"pages"`
	Limit int   `json:"limit"`
}

type transactionsResponse struct {
	Success    bool              `json:"success"`
	Data       []transactionItem `json:"data"`
	Pagination pagination        `json:"pagination"`
}

// parsePageQuery reads type/limit/page query parameters with defaults
func parsePageQuery(r *http.Request) (entryType string, limit int, page int) {
	q := r.URL.Query()

	entryType = q.Get("type")

	limit = defaultPageLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageLimit)
	}

	page = 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}

	return entryType, limit, page
}

func listTransactions(w http.ResponseWriter, r *http.Request, walletService walletService, userID *int64, l logger.Logger) {
	entryType, limit, page := parsePageQuery(r)

	entries, total, err := walletService.ListTransactions(r.Context(), repository.LedgerFilter{
		UserID: userID,
		Type:   entryType,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		failFromError(w, err, l)
		return
	}

	items := make([]transactionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, transactionItem(e))
	}

	pages := (total + int64(limit) - 1) / int64(limit)

	render.JSON(w, transactionsResponse{
		Success: true,
		Data:    items,
		Pagination: pagination{
			Total: total,
			Page:  page,
			Pages: pages,
			Limit: limit,
		},
	})
}

// Full ledger view, admin only
func handleListTransactions(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listTransactions(w, r, walletService, nil, l)
	})
}

// Authenticated user's own ledger history
func handleMyTransactions(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		listTransactions(w, r, walletService, &user.ID, l)
	})
}
