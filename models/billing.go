// Package models — Faturalama (Stripe) modelleri.
//
// Stripe tarafındaki nesnelerin client'a dönen sade izdüşümleri.
// Stripe SDK tipleri handler katmanına sızmaz.
package models

// CheckoutSession, abonelik başlatma için Stripe Checkout yönlendirmesi.
type CheckoutSession struct {
	URL string `json:"url"`
}

// PortalSession, mevcut aboneliğin yönetimi için Billing Portal yönlendirmesi.
type PortalSession struct {
	URL string `json:"url"`
}

// Invoice, kullanıcının bir faturası.
// Tutarlar kuruş (cent) cinsindendir — Stripe'ın sözleşmesi.
type Invoice struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Status     string `json:"status"`
	AmountDue  int64  `json:"amount_due"`
	AmountPaid int64  `json:"amount_paid"`
	Currency   string `json:"currency"`
	CreatedAt  int64  `json:"created_at"` // epoch saniye
	HostedURL  string `json:"hosted_url"`
	PDFURL     string `json:"pdf_url"`
}
