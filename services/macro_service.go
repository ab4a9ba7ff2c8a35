package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/denizakgul/raporly/database"
	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/repository"
)

// MacroService, dikte makroları ve kategorilerinin iş mantığı.
//
// Sahiplik kuralı tüm operasyonlarda aynıdır: kayıt yoksa ErrNotFound,
// kayıt var ama başka kullanıcınınsa ErrForbidden. İkisi ayrı durumdur —
// 403, kaynağın VAR olduğunu sızdırır, bu bilinçli bir tercihtir çünkü
// makro ID'leri tahmin edilebilir değildir (random blob).
type MacroService interface {
	CreateMacro(ctx context.Context, userID string, req *models.CreateMacroRequest) (*models.Macro, error)
	ListMacros(ctx context.Context, userID string) ([]models.Macro, error)
	UpdateMacro(ctx context.Context, userID, macroID string, req *models.UpdateMacroRequest) (*models.Macro, error)
	DeleteMacro(ctx context.Context, userID, macroID string) error

	CreateCategory(ctx context.Context, userID string, req *models.CreateCategoryRequest) (*models.MacroCategory, error)
	ListCategories(ctx context.Context, userID string) ([]models.MacroCategory, error)
	// DeleteCategory, kategoriyi siler ve içindeki makroları kategorisiz
	// bırakır. İki yazma tek transaction'da yapılır.
	DeleteCategory(ctx context.Context, userID, categoryID string) error

	// Expand, metindeki makro tetikleyicilerini replacement text ile genişletir.
	Expand(ctx context.Context, userID string, req *models.ExpandRequest) (*models.ExpandResult, error)
}

// macroService, MacroService implementasyonu.
type macroService struct {
	db           *sql.DB
	macroRepo    repository.MacroRepository
	categoryRepo repository.MacroCategoryRepository
}

// NewMacroService, constructor.
//
// *sql.DB ayrıca alınır çünkü DeleteCategory kendi transaction'ını açar —
// repo'lar transaction'ın içinde TxQuerier olarak yeniden kurulur.
func NewMacroService(
	db *sql.DB,
	macroRepo repository.MacroRepository,
	categoryRepo repository.MacroCategoryRepository,
) MacroService {
	return &macroService{
		db:           db,
		macroRepo:    macroRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateMacro, yeni makro oluşturur.
func (s *macroService) CreateMacro(ctx context.Context, userID string, req *models.CreateMacroRequest) (*models.Macro, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	// Kategori verildiyse sahiplik kontrolü — başka kullanıcının
	// kategorisine makro eklenemez.
	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := s.ownedCategory(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	macro := &models.Macro{
		UserID:          userID,
		CategoryID:      normalizeCategoryID(req.CategoryID),
		Name:            req.Name,
		ReplacementText: req.ReplacementText,
	}

	if err := s.macroRepo.Create(ctx, macro); err != nil {
		return nil, err // ErrAlreadyExists olabilir (UNIQUE(user_id, name))
	}

	return macro, nil
}

// ListMacros, kullanıcının tüm makrolarını döner.
func (s *macroService) ListMacros(ctx context.Context, userID string) ([]models.Macro, error) {
	return s.macroRepo.GetAllByUser(ctx, userID)
}

// UpdateMacro, kısmi makro güncellemesi yapar.
func (s *macroService) UpdateMacro(ctx context.Context, userID, macroID string, req *models.UpdateMacroRequest) (*models.Macro, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	macro, err := s.ownedMacro(ctx, userID, macroID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		macro.Name = *req.Name
	}
	if req.ReplacementText != nil {
		macro.ReplacementText = *req.ReplacementText
	}
	if req.CategoryID != nil {
		if *req.CategoryID != "" {
			if _, err := s.ownedCategory(ctx, userID, *req.CategoryID); err != nil {
				return nil, err
			}
		}
		macro.CategoryID = normalizeCategoryID(req.CategoryID)
	}

	if err := s.macroRepo.Update(ctx, macro); err != nil {
		return nil, err
	}

	return macro, nil
}

// DeleteMacro, makroyu siler.
func (s *macroService) DeleteMacro(ctx context.Context, userID, macroID string) error {
	if _, err := s.ownedMacro(ctx, userID, macroID); err != nil {
		return err
	}
	return s.macroRepo.Delete(ctx, macroID)
}

// CreateCategory, yeni makro kategorisi oluşturur.
func (s *macroService) CreateCategory(ctx context.Context, userID string, req *models.CreateCategoryRequest) (*models.MacroCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	category := &models.MacroCategory{
		UserID: userID,
		Name:   req.Name,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories, kullanıcının kategorilerini döner.
func (s *macroService) ListCategories(ctx context.Context, userID string) ([]models.MacroCategory, error) {
	return s.categoryRepo.GetAllByUser(ctx, userID)
}

// DeleteCategory, kategoriyi ve makro bağlantılarını atomik olarak kaldırır.
//
// Neden transaction?
// İki yazma var: makroların category_id'si NULL'lanır VE kategori silinir.
// Arada server çökerse kategorisiz makrolar ile yaşayan kategori aynı anda
// var olabilirdi. WithTx ikisini all-or-nothing yapar.
func (s *macroService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txMacroRepo := repository.NewSQLiteMacroRepo(tx)
		txCategoryRepo := repository.NewSQLiteCategoryRepo(tx)

		if err := txMacroRepo.DetachCategory(ctx, categoryID); err != nil {
			return fmt.Errorf("failed to detach macros: %w", err)
		}
		return txCategoryRepo.Delete(ctx, categoryID)
	})
}

// Expand, metindeki tetikleyicileri genişletir.
//
// Eşleştirme kuralları:
//   - Kelime sınırı (\b): "normalcxr" tetikleyicisi "abnormalcxr" içinde
//     genişlemez.
//   - Uzun isim önce: "cxr" ve "cxrpa" tetikleyicileri varken "cxrpa"
//     metni önce uzun olanla eşleşir — kısa tetikleyici uzunun içini yemez.
//   - Case-insensitive: dikte çıktısında büyük/küçük harf güvenilmezdir.
func (s *macroService) Expand(ctx context.Context, userID string, req *models.ExpandRequest) (*models.ExpandResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", pkg.ErrValidation)
	}

	macros, err := s.macroRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(macros) == 0 {
		return &models.ExpandResult{Text: req.Text}, nil
	}

	// Tüm tetikleyiciler TEK pattern'de birleşir ve metin TEK geçişte
	// taranır. Makro başına ayrı geçiş yapılsaydı bir replacement'ın
	// içindeki kelimeler sonraki makrolar tarafından yeniden genişlerdi
	// ("ct" tetikleyicisi "CT abdomen..." çıktısını yerdi).
	//
	// Go regexp'inde alternation soldaki alternatifi tercih eder; uzun
	// isimleri öne koymak aynı pozisyondaki "ctabd" / "ct" yarışını uzun
	// olana kazandırır.
	sort.Slice(macros, func(i, j int) bool {
		return len(macros[i].Name) > len(macros[j].Name)
	})

	triggers := make([]string, 0, len(macros))
	replacements := make(map[string]string, len(macros))
	for _, macro := range macros {
		key := strings.ToLower(macro.Name)
		if _, ok := replacements[key]; ok {
			continue // case-collision: ilk (uzunluk-eş) kayıt kazanır
		}
		replacements[key] = macro.ReplacementText
		triggers = append(triggers, regexp.QuoteMeta(macro.Name))
	}

	pattern, err := regexp.Compile(`(?i)\b(?:` + strings.Join(triggers, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to build macro pattern: %w", err)
	}

	expanded := 0
	text := pattern.ReplaceAllStringFunc(req.Text, func(match string) string {
		expanded++
		return replacements[strings.ToLower(match)]
	})

	return &models.ExpandResult{Text: text, Expanded: expanded}, nil
}

// ─── Private Helpers ───

// ownedMacro, makroyu yükler ve sahiplik doğrular.
func (s *macroService) ownedMacro(ctx context.Context, userID, macroID string) (*models.Macro, error) {
	macro, err := s.macroRepo.GetByID(ctx, macroID)
	if err != nil {
		return nil, err // ErrNotFound
	}
	if macro.UserID != userID {
		return nil, fmt.Errorf("%w: macro belongs to another user", pkg.ErrForbidden)
	}
	return macro, nil
}

// ownedCategory, kategoriyi yükler ve sahiplik doğrular.
func (s *macroService) ownedCategory(ctx context.Context, userID, categoryID string) (*models.MacroCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, fmt.Errorf("%w: category belongs to another user", pkg.ErrForbidden)
	}
	return category, nil
}

// normalizeCategoryID, boş string'i nil'e çevirir — DB'de NULL olarak durur.
func normalizeCategoryID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
