package repositories

import (
	"errors"
	"time"

	"accounts_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already taken")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrNothingToUpdate = errors.New("nothing to update")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	EmailExists(email string, excludeUserID string) (bool, error)
	UsernameExists(username string) (bool, error)
	Create(user *models.User) error
	UpdateFields(userID string, fields map[string]interface{}) error
	UpdatePasswordHash(userID, hash string) error
	UpdateLastLogin(userID string) error
	Delete(userID string) error

	// Админ-операции
	FindWithFilter(filter UserFilter) ([]models.User, int64, error)
	SetActive(userID string, active bool) error
}

type UserFilter struct {
	IsActive *bool
	IsStaff  *bool
	Search   string
	Page     int
	PageSize int
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EmailExists проверяет занятость email. excludeUserID исключает собственную
// строку пользователя - смена email на текущее значение всегда проходит.
func (r *UserRepositoryImpl) EmailExists(email string, excludeUserID string) (bool, error) {
	var count int64
	q := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeUserID != "" {
		q = q.Where("id <> ?", excludeUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create вставляет пользователя. Нарушение уникального индекса БД
// транслируется в ErrEmailTaken/ErrUsernameTaken: при одновременной
// регистрации кооперативная проверка могла пройти у обоих, и решает
// только constraint самой базы.
func (r *UserRepositoryImpl) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if err == nil {
		return nil
	}
	return translateDuplicateError(err)
}

func translateDuplicateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "idx_users_username" {
			return ErrUsernameTaken
		}
		return ErrEmailTaken
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// UpdateFields обновляет произвольный набор колонок одной записью
func (r *UserRepositoryImpl) UpdateFields(userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return ErrNothingToUpdate
	}
	fields["updated_at"] = time.Now()

	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return translateDuplicateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePasswordHash(userID, hash string) error {
	return r.UpdateFields(userID, map[string]interface{}{
		"password_hash": hash,
	})
}

func (r *UserRepositoryImpl) UpdateLastLogin(userID string) error {
	return r.UpdateFields(userID, map[string]interface{}{
		"last_login": time.Now(),
	})
}

// Delete безвозвратно удаляет аккаунт вместе с его записями блэклиста
func (r *UserRepositoryImpl) Delete(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.BlacklistedToken{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepositoryImpl) FindWithFilter(filter UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsStaff != nil {
		query = query.Where("is_staff = ?", *filter.IsStaff)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (filter.Page - 1) * filter.PageSize
	err := query.Order("created_at DESC").Limit(filter.PageSize).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) SetActive(userID string, active bool) error {
	return r.UpdateFields(userID, map[string]interface{}{
		"is_active": active,
	})
}
