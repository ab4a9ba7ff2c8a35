package services

import (
	"context"
	"fmt"
	"log"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/pkg/crypto"
	"github.com/denizakgul/raporly/repository"
)

// DraftService, taslakların iş mantığı.
//
// İçerik hasta verisi taşıyabilir — repository'ye inmeden önce AES-256-GCM
// ile şifrelenir, okunurken çözülür. Repository bu dönüşümden habersizdir;
// DB dosyası sızsa bile taslak içerikleri okunamaz.
//
// Anahtar config'de yoksa şifreleme atlanır (development kolaylığı) ve
// startup'ta bir uyarı loglanır.
type DraftService interface {
	Create(ctx context.Context, userID string, req *models.CreateDraftRequest) (*models.Draft, error)
	List(ctx context.Context, userID string) ([]models.Draft, error)
	Get(ctx context.Context, userID, draftID string) (*models.Draft, error)
	Update(ctx context.Context, userID, draftID string, req *models.UpdateDraftRequest) (*models.Draft, error)
	Delete(ctx context.Context, userID, draftID string) error
}

// draftService, DraftService implementasyonu.
type draftService struct {
	repo repository.DraftRepository
	key  []byte // nil = şifreleme kapalı
}

// NewDraftService, constructor.
// hexKey boş string ise şifreleme devre dışı kalır.
func NewDraftService(repo repository.DraftRepository, hexKey string) (DraftService, error) {
	var key []byte
	if hexKey != "" {
		derived, err := crypto.DeriveKey(hexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid draft encryption key: %w", err)
		}
		key = derived
	} else {
		log.Println("[drafts] DRAFT_ENCRYPTION_KEY not set, draft content will be stored in plaintext")
	}

	return &draftService{repo: repo, key: key}, nil
}

// Create, yeni taslak oluşturur.
func (s *draftService) Create(ctx context.Context, userID string, req *models.CreateDraftRequest) (*models.Draft, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	stored, err := s.seal(req.Content)
	if err != nil {
		return nil, err
	}

	draft := &models.Draft{
		UserID:  userID,
		Kind:    req.Kind,
		Title:   req.Title,
		Content: stored,
	}

	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}

	draft.Content = req.Content // client'a her zaman plaintext döner
	return draft, nil
}

// List, kullanıcının taslaklarını çözülmüş içerikle döner.
func (s *draftService) List(ctx context.Context, userID string) ([]models.Draft, error) {
	drafts, err := s.repo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range drafts {
		plain, err := s.open(drafts[i].Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt draft %s: %w", drafts[i].ID, err)
		}
		drafts[i].Content = plain
	}

	return drafts, nil
}

// Get, tek taslağı sahiplik kontrolü ile döner.
func (s *draftService) Get(ctx context.Context, userID, draftID string) (*models.Draft, error) {
	draft, err := s.ownedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	plain, err := s.open(draft.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt draft %s: %w", draftID, err)
	}
	draft.Content = plain

	return draft, nil
}

// Update, kısmi taslak güncellemesi yapar.
func (s *draftService) Update(ctx context.Context, userID, draftID string, req *models.UpdateDraftRequest) (*models.Draft, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	draft, err := s.ownedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	// Mevcut content'i çöz — değişmeyecekse aynı plaintext yeniden
	// şifrelenir (GCM nonce'u her yazmada farklıdır, sorun değil).
	plain, err := s.open(draft.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt draft %s: %w", draftID, err)
	}

	if req.Title != nil {
		draft.Title = *req.Title
	}
	if req.Content != nil {
		plain = *req.Content
	}

	stored, err := s.seal(plain)
	if err != nil {
		return nil, err
	}
	draft.Content = stored

	if err := s.repo.Update(ctx, draft); err != nil {
		return nil, err
	}

	draft.Content = plain
	return draft, nil
}

// Delete, taslağı siler.
func (s *draftService) Delete(ctx context.Context, userID, draftID string) error {
	if _, err := s.ownedDraft(ctx, userID, draftID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, draftID)
}

// ─── Private Helpers ───

// ownedDraft, taslağı yükler ve sahiplik doğrular. Content şifreli kalır.
func (s *draftService) ownedDraft(ctx context.Context, userID, draftID string) (*models.Draft, error) {
	draft, err := s.repo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, fmt.Errorf("%w: draft belongs to another user", pkg.ErrForbidden)
	}
	return draft, nil
}

// seal, plaintext'i saklama formuna çevirir.
func (s *draftService) seal(plaintext string) (string, error) {
	if s.key == nil {
		return plaintext, nil
	}
	sealed, err := crypto.Encrypt(plaintext, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt draft content: %w", err)
	}
	return sealed, nil
}

// open, saklama formundan plaintext'e çevirir.
func (s *draftService) open(stored string) (string, error) {
	if s.key == nil {
		return stored, nil
	}
	return crypto.Decrypt(stored, s.key)
}
