package http

import (
	"net/http"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type categoryRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
}

type categoryUpdateRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	ParentID *string `json:"parentId"` // empty string clears the parent
	IsActive *bool   `json:"isActive"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	categories, err := s.categories.List(r.Context(), userID, queryBool(r, "includeInactive"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewCategories(categories))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	c, err := s.categories.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewCategory(c))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	in := services.CategoryInput{
		Name: req.Name,
		Type: core.TransactionType(req.Type),
	}
	parentID, err := parseOptionalUUID("parentId", req.ParentID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if parentID != uuid.Nil {
		in.ParentID = &parentID
	}
	c, err := s.categories.Create(r.Context(), userID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewCategory(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req categoryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	upd := services.CategoryUpdate{
		Name:     req.Name,
		IsActive: req.IsActive,
	}
	if req.Type != nil {
		t := core.TransactionType(*req.Type)
		upd.Type = &t
	}
	if req.ParentID != nil {
		parentID, err := parseOptionalUUID("parentId", *req.ParentID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		upd.ParentID = &parentID
	}
	c, err := s.categories.Update(r.Context(), userID, id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewCategory(c))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	deactivated, err := s.categories.Delete(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"deactivated": deactivated})
}
