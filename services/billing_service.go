package services

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/invoice"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/repository"
)

// BillingService, Stripe üzerinden abonelik ve faturalama akışları.
//
// Stripe customer kaydı LAZY oluşturulur: kullanıcı ilk kez bir billing
// endpoint'ine dokunduğunda yaratılır ve users.stripe_customer_id'ye
// yazılır. Kayıt anında oluşturmak, hiç ödeme yapmayacak kullanıcılar
// için Stripe tarafında çöp kayıt üretirdi.
type BillingService interface {
	// CreateCheckout, abonelik başlatmak için Stripe Checkout session'ı açar.
	CreateCheckout(ctx context.Context, userID string) (*models.CheckoutSession, error)
	// CreatePortal, mevcut aboneliği yönetmek için Billing Portal açar.
	CreatePortal(ctx context.Context, userID string) (*models.PortalSession, error)
	// ListInvoices, kullanıcının faturalarını yeni → eski sırayla döner.
	ListInvoices(ctx context.Context, userID string) ([]models.Invoice, error)
}

// billingService, BillingService implementasyonu.
type billingService struct {
	userRepo  repository.UserRepository
	priceID   string
	publicURL string
	enabled   bool
}

// NewBillingService, constructor.
//
// stripe.Key global'dir (SDK'nın sözleşmesi) — burada bir kez set edilir.
// secretKey boşsa servis "yapılandırılmamış" modda kalır ve her çağrı
// ErrConfiguration döner; uygulamanın geri kalanı etkilenmez.
func NewBillingService(userRepo repository.UserRepository, secretKey, priceID, publicURL string) BillingService {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &billingService{
		userRepo:  userRepo,
		priceID:   priceID,
		publicURL: publicURL,
		enabled:   secretKey != "" && priceID != "",
	}
}

// CreateCheckout, subscription modunda Checkout session açar.
func (s *billingService) CreateCheckout(ctx context.Context, userID string) (*models.CheckoutSession, error) {
	if !s.enabled {
		return nil, fmt.Errorf("%w: billing is not configured", pkg.ErrConfiguration)
	}

	customerID, err := s.ensureCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.publicURL + "/billing?status=success"),
		CancelURL:  stripe.String(s.publicURL + "/billing?status=cancelled"),
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &models.CheckoutSession{URL: sess.URL}, nil
}

// CreatePortal, Billing Portal session açar.
//
// Portal sadece mevcut customer için anlamlıdır — kullanıcı hiç checkout
// yapmadıysa yönetecek abonelik yoktur.
func (s *billingService) CreatePortal(ctx context.Context, userID string) (*models.PortalSession, error) {
	if !s.enabled {
		return nil, fmt.Errorf("%w: billing is not configured", pkg.ErrConfiguration)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == nil {
		return nil, fmt.Errorf("%w: no billing account", pkg.ErrNotFound)
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(s.publicURL + "/billing"),
	}

	sess, err := portalsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}

	return &models.PortalSession{URL: sess.URL}, nil
}

// ListInvoices, Stripe'tan faturaları çeker.
// Customer kaydı yoksa boş liste döner — hata değil, henüz fatura yok.
func (s *billingService) ListInvoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	if !s.enabled {
		return nil, fmt.Errorf("%w: billing is not configured", pkg.ErrConfiguration)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == nil {
		return []models.Invoice{}, nil
	}

	params := &stripe.InvoiceListParams{
		Customer: stripe.String(*user.StripeCustomerID),
	}
	params.Limit = stripe.Int64(24)

	invoices := []models.Invoice{}
	iter := invoice.List(params)
	for iter.Next() {
		inv := iter.Invoice()
		item := models.Invoice{
			ID:         inv.ID,
			Number:     inv.Number,
			Status:     string(inv.Status),
			AmountDue:  inv.AmountDue,
			AmountPaid: inv.AmountPaid,
			Currency:   string(inv.Currency),
			CreatedAt:  inv.Created,
			HostedURL:  inv.HostedInvoiceURL,
			PDFURL:     inv.InvoicePDF,
		}
		invoices = append(invoices, item)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}

// ─── Private Helpers ───

// ensureCustomer, kullanıcının Stripe customer ID'sini döner;
// yoksa oluşturup DB'ye yazar.
func (s *billingService) ensureCustomer(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if user.StripeCustomerID != nil {
		return *user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.DisplayName),
	}
	params.AddMetadata("user_id", user.ID)

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}

	if err := s.userRepo.UpdateStripeCustomerID(ctx, user.ID, cust.ID); err != nil {
		return "", fmt.Errorf("failed to store stripe customer id: %w", err)
	}

	return cust.ID, nil
}
