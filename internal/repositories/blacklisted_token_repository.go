package repositories

import (
	"errors"
	"time"

	"accounts_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BlacklistedTokenRepository interface {
	Add(token *models.BlacklistedToken) error
	IsBlacklisted(jti string) (bool, error)
	PurgeExpired() error
}

type BlacklistedTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewBlacklistedTokenRepository(db *gorm.DB) BlacklistedTokenRepository {
	return &BlacklistedTokenRepositoryImpl{db: db}
}

// Add заносит jti в блэклист. Повторный logout с тем же токеном
// не ошибка: конфликт по jti проглатывается.
func (r *BlacklistedTokenRepositoryImpl) Add(token *models.BlacklistedToken) error {
	err := r.db.Create(token).Error
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *BlacklistedTokenRepositoryImpl) IsBlacklisted(jti string) (bool, error) {
	var count int64
	err := r.db.Model(&models.BlacklistedToken{}).Where("jti = ?", jti).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired удаляет записи, чей токен и так уже истек
func (r *BlacklistedTokenRepositoryImpl) PurgeExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&models.BlacklistedToken{}).Error
}
