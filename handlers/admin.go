// Package handlers — AdminHandler, platform admin endpoint'leri.
//
// Bu handler sadece platform admin kullanıcılar tarafından erişilebilir.
// PlatformAdminMiddleware tarafından korunur; yetki kontrolü burada
// TEKRARLANMAZ.
package handlers

import (
	"net/http"

	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/services"
)

// AdminHandler, platform istatistikleri ve kullanıcı listesi.
type AdminHandler struct {
	adminService services.AdminService
}

// NewAdminHandler, constructor.
func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetStats godoc
// GET /api/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// ListUsers godoc
// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, users)
}
