package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/ws"
)

// Test fake'leri — servis testlerinin DB ve Hub olmadan çalışmasını sağlar.

// fakeSessionRepo, repository.SessionRepository'nin in-memory hali.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session", pkg.ErrNotFound)
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.RefreshToken == token {
			copied := *session
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: session", pkg.ErrNotFound)
}

func (r *fakeSessionRepo) UpdateLastActivity(ctx context.Context, id string, activityMS int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: session", pkg.ErrNotFound)
	}
	session.LastActivityMS = &activityMS
	return nil
}

func (r *fakeSessionRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

// fakePublisher, ws.EventPublisher — gönderilen event'leri kaydeder.
type fakePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *fakePublisher) BroadcastToAll(event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) BroadcastToUser(userID string, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) GetOnlineUserIDs() []string { return nil }

// ops, yayınlanan event op'larını sırayla döner.
func (p *fakePublisher) ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Op
	}
	return out
}

// fakeRevoker, SessionRevoker — revoke edilen oturumları sayar.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked []string
}

func (r *fakeRevoker) RevokeSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked = append(r.revoked, sessionID)
	return nil
}

func (r *fakeRevoker) revokedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.revoked...)
}

// fakeDisconnector, SessionDisconnector — koparılan bağlantıları kaydeder.
type fakeDisconnector struct {
	mu           sync.Mutex
	disconnected []string
}

func (d *fakeDisconnector) DisconnectSession(userID, sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disconnected = append(d.disconnected, sessionID)
}

func (d *fakeDisconnector) disconnectedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.disconnected...)
}

// fakePreferenceRepo, repository.PreferenceRepository — Upsert'e gelen
// kayıtları saklar, CompactMode sızıntısı testlerde buradan yakalanır.
type fakePreferenceRepo struct {
	mu      sync.Mutex
	stored  map[string]*models.Preferences
	upserts []models.Preferences
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{stored: make(map[string]*models.Preferences)}
}

func (r *fakePreferenceRepo) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs, ok := r.stored[userID]
	if !ok {
		return nil, fmt.Errorf("%w: preferences", pkg.ErrNotFound)
	}
	copied := *prefs
	return &copied, nil
}

func (r *fakePreferenceRepo) Upsert(ctx context.Context, prefs *models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *prefs
	r.stored[prefs.UserID] = &copied
	r.upserts = append(r.upserts, copied)
	return nil
}

func (r *fakePreferenceRepo) upsertedRecords() []models.Preferences {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Preferences(nil), r.upserts...)
}

// fakeMacroRepo, repository.MacroRepository — Expand testleri için.
type fakeMacroRepo struct {
	mu     sync.Mutex
	macros map[string]*models.Macro
}

func newFakeMacroRepo() *fakeMacroRepo {
	return &fakeMacroRepo{macros: make(map[string]*models.Macro)}
}

func (r *fakeMacroRepo) Create(ctx context.Context, macro *models.Macro) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.macros[macro.ID] = macro
	return nil
}

func (r *fakeMacroRepo) GetByID(ctx context.Context, id string) (*models.Macro, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	macro, ok := r.macros[id]
	if !ok {
		return nil, fmt.Errorf("%w: macro", pkg.ErrNotFound)
	}
	copied := *macro
	return &copied, nil
}

func (r *fakeMacroRepo) GetAllByUser(ctx context.Context, userID string) ([]models.Macro, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Macro
	for _, macro := range r.macros {
		if macro.UserID == userID {
			out = append(out, *macro)
		}
	}
	return out, nil
}

func (r *fakeMacroRepo) Update(ctx context.Context, macro *models.Macro) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.macros[macro.ID] = macro
	return nil
}

func (r *fakeMacroRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.macros, id)
	return nil
}

func (r *fakeMacroRepo) DetachCategory(ctx context.Context, categoryID string) error { return nil }

func (r *fakeMacroRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	macros, _ := r.GetAllByUser(ctx, userID)
	return len(macros), nil
}

// fakeTemplateRepo, repository.TemplateRepository'nin in-memory hali.
type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]*models.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*models.Template)}
}

func (r *fakeTemplateRepo) Create(ctx context.Context, template *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[template.ID] = template
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template", pkg.ErrNotFound)
	}
	copied := *template
	return &copied, nil
}

func (r *fakeTemplateRepo) GetVisibleByUser(ctx context.Context, userID string) ([]models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Template
	for _, template := range r.templates {
		if template.IsGlobal && template.IsPublished {
			out = append(out, *template)
			continue
		}
		if template.UserID != nil && *template.UserID == userID {
			out = append(out, *template)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, template *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[template.ID] = template
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.templates), nil
}
