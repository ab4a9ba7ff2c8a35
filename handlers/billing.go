package handlers

import (
	"net/http"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/services"
)

// BillingHandler, Stripe abonelik endpoint'leri.
type BillingHandler struct {
	billingService services.BillingService
}

// NewBillingHandler, constructor.
func NewBillingHandler(billingService services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateCheckout godoc
// POST /api/billing/checkout
// Abonelik için Stripe Checkout oturumu açar, yönlendirme URL'i döner.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	session, err := h.billingService.CreateCheckout(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, session)
}

// CreatePortal godoc
// POST /api/billing/portal
// Mevcut aboneliği yönetmek için Stripe müşteri portalı oturumu açar.
func (h *BillingHandler) CreatePortal(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	session, err := h.billingService.CreatePortal(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, session)
}

// ListInvoices godoc
// GET /api/billing/invoices
func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	invoices, err := h.billingService.ListInvoices(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, invoices)
}
