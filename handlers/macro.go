package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/services"
)

// MacroHandler, dikte makroları ve kategorileri endpoint'leri.
type MacroHandler struct {
	macroService services.MacroService
}

// NewMacroHandler, constructor.
func NewMacroHandler(macroService services.MacroService) *MacroHandler {
	return &MacroHandler{macroService: macroService}
}

// Create godoc
// POST /api/macros
func (h *MacroHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateMacroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	macro, err := h.macroService.CreateMacro(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, macro)
}

// List godoc
// GET /api/macros
func (h *MacroHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	macros, err := h.macroService.ListMacros(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, macros)
}

// Update godoc
// PUT /api/macros/{macroId}
func (h *MacroHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.UpdateMacroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	macro, err := h.macroService.UpdateMacro(r.Context(), user.ID, r.PathValue("macroId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, macro)
}

// Delete godoc
// DELETE /api/macros/{macroId}
func (h *MacroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.macroService.DeleteMacro(r.Context(), user.ID, r.PathValue("macroId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "macro deleted"})
}

// CreateCategory godoc
// POST /api/macros/categories
func (h *MacroHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.macroService.CreateCategory(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, category)
}

// ListCategories godoc
// GET /api/macros/categories
func (h *MacroHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	categories, err := h.macroService.ListCategories(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, categories)
}

// DeleteCategory godoc
// DELETE /api/macros/categories/{categoryId}
// Kategorideki makrolar silinmez, kategorisiz kalır.
func (h *MacroHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.macroService.DeleteCategory(r.Context(), user.ID, r.PathValue("categoryId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// Expand godoc
// POST /api/macros/expand
// Body: { "text": "..." }
// Metindeki makro tetikleyicilerini genişletir.
func (h *MacroHandler) Expand(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.macroService.Expand(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}
