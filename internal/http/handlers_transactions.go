package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type transactionRequest struct {
	AccountID   string   `json:"accountId"`
	CategoryID  string   `json:"categoryId"`
	Amount      float64  `json:"amount"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Frequency   string   `json:"frequency"`
}

type transactionUpdateRequest struct {
	AccountID   *string   `json:"accountId"`
	CategoryID  *string   `json:"categoryId"`
	Amount      *float64  `json:"amount"`
	Type        *string   `json:"type"`
	Date        *string   `json:"date"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Frequency   *string   `json:"frequency"` // empty string clears the recurrence
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	q := r.URL.Query()

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	filter := storage.TransactionFilter{
		Type:     core.TransactionType(q.Get("type")),
		Search:   strings.TrimSpace(q.Get("search")),
		SortBy:   q.Get("sortBy"),
		SortDesc: q.Get("sortOrder") != "asc",
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	from, err := queryDate(r, "from")
	if err != nil {
		respondError(w, r, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !from.IsZero() {
		filter.From = from.Format("2006-01-02")
	}
	if !to.IsZero() {
		filter.To = to.Format("2006-01-02")
	}

	if filter.AccountID, err = parseOptionalUUID("accountId", q.Get("accountId")); err != nil {
		respondError(w, r, err)
		return
	}
	if filter.CategoryID, err = parseOptionalUUID("categoryId", q.Get("categoryId")); err != nil {
		respondError(w, r, err)
		return
	}
	if filter.Type != "" && !filter.Type.Valid() {
		respondError(w, r, core.Invalid("type", "must be income or expense"))
		return
	}

	txs, total, err := s.ledger.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := transactionPage{
		Transactions: make([]transactionView, 0, len(txs)),
		Total:        total,
		Page:         page,
		Limit:        limit,
	}
	for _, t := range txs {
		resp.Transactions = append(resp.Transactions, viewTransaction(t))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	t, err := s.ledger.GetTransaction(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewTransaction(t))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		respondError(w, r, core.Invalid("accountId", "must be a valid UUID"))
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondError(w, r, core.Invalid("categoryId", "must be a valid UUID"))
		return
	}
	date, err := parseBodyDate("date", req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.ledger.CreateTransaction(r.Context(), userID, services.TransactionInput{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      req.Amount,
		Type:        core.TransactionType(req.Type),
		Date:        date,
		Description: req.Description,
		Tags:        req.Tags,
		Frequency:   core.Frequency(req.Frequency),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewTransaction(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req transactionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	upd := services.TransactionUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.AccountID != nil {
		accountID, err := uuid.Parse(*req.AccountID)
		if err != nil {
			respondError(w, r, core.Invalid("accountId", "must be a valid UUID"))
			return
		}
		upd.AccountID = &accountID
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondError(w, r, core.Invalid("categoryId", "must be a valid UUID"))
			return
		}
		upd.CategoryID = &categoryID
	}
	if req.Type != nil {
		t := core.TransactionType(*req.Type)
		upd.Type = &t
	}
	if req.Date != nil {
		date, err := parseBodyDate("date", *req.Date)
		if err != nil {
			respondError(w, r, err)
			return
		}
		upd.Date = &date
	}
	if req.Frequency != nil {
		f := core.Frequency(*req.Frequency)
		upd.Frequency = &f
	}

	t, err := s.ledger.UpdateTransaction(r.Context(), userID, id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewTransaction(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), userID, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importRequest struct {
	Transactions []importRowRequest `json:"transactions"`
}

type importRowRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CategoryID  string  `json:"categoryId"`
}

func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.Transactions) == 0 {
		respondError(w, r, core.Invalid("transactions", "cannot be empty"))
		return
	}

	rows := make([]services.ImportRow, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		rows = append(rows, services.ImportRow{
			Amount:      t.Amount,
			Description: t.Description,
			Date:        t.Date,
			CategoryID:  t.CategoryID,
		})
	}

	result, err := s.importer.Import(r.Context(), userID, rows)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
