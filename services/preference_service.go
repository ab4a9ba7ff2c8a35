package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/repository"
	"github.com/denizakgul/raporly/ws"
)

// PreferenceService, kullanıcı tercihlerinin iki katmanlı yönetimi.
//
// Katmanlar:
//   - DB (authoritative): kalıcı profil alanları. Theme, default template,
//     auto-save vb. cihazlar arası taşınır.
//   - In-memory mirror: her güncellemede senkron yazılan sıcak kopya.
//     DB geçici olarak erişilemezse okumalar mirror'dan servis edilir.
//
// CompactMode istisnadır: SADECE mirror'da yaşar, DB'ye hiç yazılmaz.
// Cihaz/oturum bazlı bir görünüm tercihi olduğu için kalıcı profile
// sızmaması gerekir — kullanıcı telefonda compact açtı diye masaüstü
// compact açılmamalı.
type PreferenceService interface {
	// Get, kullanıcının tercihlerini döner. DB'de kayıt yoksa default'lar
	// döner; DB hatasında mirror'a düşülür.
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	// Update, kısmi güncelleme uygular ve sonucu kullanıcının diğer
	// sekmelerine preference_update event'i ile yayınlar.
	Update(ctx context.Context, userID string, req *models.UpdatePreferencesRequest) (*models.Preferences, error)
}

// preferenceService, PreferenceService implementasyonu.
type preferenceService struct {
	repo repository.PreferenceRepository
	hub  ws.EventPublisher

	mu     sync.RWMutex
	mirror map[string]*models.Preferences // userID → sıcak kopya
}

// NewPreferenceService, constructor.
func NewPreferenceService(repo repository.PreferenceRepository, hub ws.EventPublisher) PreferenceService {
	return &preferenceService{
		repo:   repo,
		hub:    hub,
		mirror: make(map[string]*models.Preferences),
	}
}

// Get, tercihlerin güncel halini döner.
//
// Okuma sırası: DB → mirror → default.
// DB authoritative'dir; mirror sadece DB erişilemezken devreye girer.
// CompactMode her durumda mirror'dan eklenir — DB onu hiç bilmez.
func (s *preferenceService) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		s.mu.RLock()
		cached, ok := s.mirror[userID]
		s.mu.RUnlock()
		if ok {
			out := *cached
			return &out, nil
		}
		prefs = models.DefaultPreferences(userID)
	}

	// Mirror'daki oturum bazlı alanları DB sonucunun üzerine bindir.
	s.mu.RLock()
	if cached, ok := s.mirror[userID]; ok {
		prefs.CompactMode = cached.CompactMode
	}
	s.mu.RUnlock()

	s.storeMirror(prefs)
	return prefs, nil
}

// Update, kısmi güncellemeyi uygular.
//
// Yazma sırası:
//  1. Mirror SENKRON güncellenir — sonraki okuma güncel değeri görür.
//  2. Kalıcı alan varsa DB'ye yazılır. DB yazması başarısız olsa bile
//     mirror güncel kalır ve hata loglanır — kullanıcının tema değişikliği
//     geçici DB kilidi yüzünden kaybolmaz (bir sonraki update tekrar dener).
//  3. Sonuç kullanıcının tüm sekmelerine broadcast edilir.
func (s *preferenceService) Update(ctx context.Context, userID string, req *models.UpdatePreferencesRequest) (*models.Preferences, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", pkg.ErrValidation)
	}

	// Mevcut durumu al (DB → mirror → default zinciri Get'te).
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyPreferenceUpdate(current, req)

	// 1. Mirror senkron güncellenir.
	s.storeMirror(current)

	// 2. Kalıcı alan değiştiyse DB'ye yaz. Sadece CompactMode geldiyse
	//    network yazması yapılmaz.
	if req.PersistsToStore() {
		// DB kopyası CompactMode taşımaz — kolon bile yok, ama kuralın
		// tek muhafızı şema olmamalı.
		persisted := *current
		persisted.CompactMode = false
		if err := s.repo.Upsert(ctx, &persisted); err != nil {
			log.Printf("[preferences] failed to persist preferences for user %s: %v", userID, err)
		}
	}

	// 3. Diğer sekmeleri senkronize et.
	s.hub.BroadcastToUser(userID, ws.Event{
		Op: ws.OpPreferenceUpdate,
		Data: ws.PreferenceUpdateData{
			Theme:               current.Theme,
			DefaultTemplateID:   current.DefaultTemplateID,
			AutoSave:            current.AutoSave,
			YoloMode:            current.YoloMode,
			OnboardingCompleted: current.OnboardingCompleted,
			CompactMode:         current.CompactMode,
		},
	})

	out := *current
	return &out, nil
}

// applyPreferenceUpdate, nil olmayan alanları mevcut tercihlerin üzerine yazar.
func applyPreferenceUpdate(prefs *models.Preferences, req *models.UpdatePreferencesRequest) {
	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}
	if req.DefaultTemplateID != nil {
		if *req.DefaultTemplateID == "" {
			prefs.DefaultTemplateID = nil
		} else {
			prefs.DefaultTemplateID = req.DefaultTemplateID
		}
	}
	if req.AutoSave != nil {
		prefs.AutoSave = *req.AutoSave
	}
	if req.YoloMode != nil {
		prefs.YoloMode = *req.YoloMode
	}
	if req.OnboardingCompleted != nil {
		prefs.OnboardingCompleted = *req.OnboardingCompleted
	}
	if req.CompactMode != nil {
		prefs.CompactMode = *req.CompactMode
	}
}

// storeMirror, mirror'a kopya yazar (caller'ın pointer'ı sonradan
// değişirse mirror etkilenmesin).
func (s *preferenceService) storeMirror(prefs *models.Preferences) {
	cp := *prefs
	s.mu.Lock()
	s.mirror[prefs.UserID] = &cp
	s.mu.Unlock()
}
