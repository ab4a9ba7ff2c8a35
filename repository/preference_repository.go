package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// PreferenceRepository, kullanıcı tercihlerinin kalıcı kaydı için interface.
//
// CompactMode bu katmana HİÇ inmez — service katmanı onu sadece
// in-memory mirror'da tutar. Repository'nin yazdığı/okuduğu alanlar
// her zaman kalıcı profil alanlarıdır.
type PreferenceRepository interface {
	// Get, kullanıcının tercih kaydını döner.
	// Kayıt yoksa pkg.ErrNotFound döner; service varsayılanları üretir.
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	// Upsert, tercih kaydını yazar (yoksa oluşturur).
	Upsert(ctx context.Context, prefs *models.Preferences) error
}
