// Package models — Kullanıcı tercihleri.
//
// Tercihler iki katmanda yaşar: DB'deki kalıcı kayıt (authoritative) ve
// sunucu içi mirror cache. CompactMode DB'ye HİÇ yazılmaz — sadece
// mirror'da yaşar, cihaz/oturum bazlı bir görünüm tercihi olduğu için
// kalıcı profile sızmaması gerekir.
package models

import (
	"fmt"
	"time"
)

// Geçerli tema değerleri.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Preferences, bir kullanıcının uygulama tercihleri.
type Preferences struct {
	UserID              string    `json:"-"`
	Theme               string    `json:"theme"`
	DefaultTemplateID   *string   `json:"default_template_id"`
	AutoSave            bool      `json:"auto_save"`
	YoloMode            bool      `json:"yolo_mode"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CompactMode         bool      `json:"compact_mode"` // mirror-only, DB'ye yazılmaz
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultPreferences, hiç kaydı olmayan kullanıcı için varsayılanlar.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:   userID,
		Theme:    ThemeSystem,
		AutoSave: true,
	}
}

// UpdatePreferencesRequest, kısmi tercih güncellemesi.
// Pointer alanlar "gönderilmedi" ile "false/boş gönderildi" ayrımını yapar.
type UpdatePreferencesRequest struct {
	Theme               *string `json:"theme"`
	DefaultTemplateID   *string `json:"default_template_id"`
	AutoSave            *bool   `json:"auto_save"`
	YoloMode            *bool   `json:"yolo_mode"`
	OnboardingCompleted *bool   `json:"onboarding_completed"`
	CompactMode         *bool   `json:"compact_mode"`
}

// Validate, UpdatePreferencesRequest geçerlilik kontrolü.
func (r *UpdatePreferencesRequest) Validate() error {
	if r.Theme != nil {
		switch *r.Theme {
		case ThemeLight, ThemeDark, ThemeSystem:
		default:
			return fmt.Errorf("invalid theme")
		}
	}
	return nil
}

// IsEmpty, istekte güncellenecek hiçbir alan olup olmadığını söyler.
func (r *UpdatePreferencesRequest) IsEmpty() bool {
	return r.Theme == nil && r.DefaultTemplateID == nil && r.AutoSave == nil &&
		r.YoloMode == nil && r.OnboardingCompleted == nil && r.CompactMode == nil
}

// PersistsToStore, DB'ye yazma gerektiren en az bir alan var mı?
// Sadece CompactMode gönderildiyse network yazması yapılmaz.
func (r *UpdatePreferencesRequest) PersistsToStore() bool {
	return r.Theme != nil || r.DefaultTemplateID != nil || r.AutoSave != nil ||
		r.YoloMode != nil || r.OnboardingCompleted != nil
}
