// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository bir DB bağlantısı alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"database/sql"

	"github.com/denizakgul/raporly/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? Ayrı ayrı değişkenler yerine tek struct kullanmak
// fonksiyon imzalarını temiz tutar ve yeni repository eklendiğinde
// sadece struct + initRepositories güncellenir.
type Repositories struct {
	User          repository.UserRepository
	Session       repository.SessionRepository
	ResetToken    repository.PasswordResetRepository
	Preference    repository.PreferenceRepository
	Macro         repository.MacroRepository
	MacroCategory repository.MacroCategoryRepository
	Template      repository.TemplateRepository
	Draft         repository.DraftRepository
	Admin         repository.AdminRepository
}

// initRepositories, tüm repository'leri DB bağlantısı ile oluşturur.
func initRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		User:          repository.NewSQLiteUserRepo(db),
		Session:       repository.NewSQLiteSessionRepo(db),
		ResetToken:    repository.NewSQLiteResetTokenRepo(db),
		Preference:    repository.NewSQLitePreferenceRepo(db),
		Macro:         repository.NewSQLiteMacroRepo(db),
		MacroCategory: repository.NewSQLiteCategoryRepo(db),
		Template:      repository.NewSQLiteTemplateRepo(db),
		Draft:         repository.NewSQLiteDraftRepo(db),
		Admin:         repository.NewSQLiteAdminRepo(db),
	}
}
