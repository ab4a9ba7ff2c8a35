package models

// PlatformStats — Admin panelde gösterilen platform geneli sayılar.
// Tek SQL sorgusu ile toplanır; OnlineUsers hub'dan gelir.
type PlatformStats struct {
	TotalUsers     int `json:"total_users"`
	TotalTemplates int `json:"total_templates"`
	TotalMacros    int `json:"total_macros"`
	TotalDrafts    int `json:"total_drafts"`
	OnlineUsers    int `json:"online_users"`
}

// AdminUserListItem — Admin panelde gösterilen kullanıcı satırı.
// İstatistikler correlated subquery pattern ile tek sorguda toplanır.
type AdminUserListItem struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	DisplayName     string  `json:"display_name"`
	Email           string  `json:"email"`
	IsPlatformAdmin bool    `json:"is_platform_admin"`
	CreatedAt       string  `json:"created_at"`
	LastActivity    *string `json:"last_activity"`
	TemplateCount   int     `json:"template_count"`
	MacroCount      int     `json:"macro_count"`
	DraftCount      int     `json:"draft_count"`
	HasSubscription bool    `json:"has_subscription"`
}
