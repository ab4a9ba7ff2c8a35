// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir. errors.New() ile sabit sentinel
// error'lar tanımlarız; karşılaştırma string yerine errors.Is ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Service katmanı bu sentinel'ları fmt.Errorf("%w: detay") ile sararak döner,
// handler katmanı pkg.Error ile HTTP status + hata koduna çevirir.
package pkg

import "errors"

// Domain-level error taksonomisi.
// Her sentinel bir HTTP status'a ve client'ın switch'leyebileceği
// sabit bir hata koduna (ör. "ValidationError") karşılık gelir.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrTooLarge      = errors.New("payload too large")
	ErrRateLimited   = errors.New("rate limited")
	ErrConfiguration = errors.New("configuration error")
	ErrDatabase      = errors.New("database error")
	ErrInternal      = errors.New("internal error")
)
