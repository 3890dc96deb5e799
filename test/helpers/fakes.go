package helpers

import (
	"strings"
	"sync"
	"time"

	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"

	"github.com/google/uuid"
)

// FakeUserRepository - потокобезопасная in-memory реализация
// repositories.UserRepository для тестов сервисов и хендлеров.
// Уникальность email/username проверяется на вставке так же
// авторитетно, как это делает constraint настоящей базы.
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[string]*models.User)}
}

func (r *FakeUserRepository) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *FakeUserRepository) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *FakeUserRepository) EmailExists(email string, excludeUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emailExistsLocked(email, excludeUserID), nil
}

func (r *FakeUserRepository) emailExistsLocked(email, excludeUserID string) bool {
	for _, user := range r.users {
		if user.Email == email && user.ID != excludeUserID {
			return true
		}
	}
	return false
}

func (r *FakeUserRepository) UsernameExists(username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usernameExistsLocked(username), nil
}

func (r *FakeUserRepository) usernameExistsLocked(username string) bool {
	for _, user := range r.users {
		if user.Username == username {
			return true
		}
	}
	return false
}

func (r *FakeUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailExistsLocked(user.Email, "") {
		return repositories.ErrEmailTaken
	}
	if r.usernameExistsLocked(user.Username) {
		return repositories.ErrUsernameTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *FakeUserRepository) UpdateFields(userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}

	if email, ok := fields["email"].(string); ok {
		if r.emailExistsLocked(email, userID) {
			return repositories.ErrEmailTaken
		}
		user.Email = email
	}

	applyUserFields(user, fields)
	user.UpdatedAt = time.Now()
	return nil
}

// applyUserFields переносит значения карты колонок на модель.
// Поддерживаются только колонки, которые реально пишут сервисы.
func applyUserFields(user *models.User, fields map[string]interface{}) {
	for column, value := range fields {
		switch column {
		case "password_hash":
			user.PasswordHash = value.(string)
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "country":
			user.Country = value.(string)
		case "country_code":
			user.CountryCode = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "date_of_birth":
			dob := value.(time.Time)
			user.DateOfBirth = &dob
		case "gender":
			user.Gender = models.Gender(value.(string))
		case "last_login":
			t := value.(time.Time)
			user.LastLogin = &t
		case "is_active":
			user.IsActive = value.(bool)

		case "theme_mode":
			user.Settings.ThemeMode = models.ThemeMode(value.(string))
		case "accent_color":
			user.Settings.AccentColor = models.AccentColor(value.(string))
		case "font_family":
			user.Settings.FontFamily = models.FontFamily(value.(string))
		case "font_size":
			user.Settings.FontSize = value.(int)
		case "compact_mode":
			user.Settings.CompactMode = value.(bool)
		case "show_tooltips":
			user.Settings.ShowTooltips = value.(bool)
		case "animations":
			user.Settings.Animations = value.(bool)
		case "email_alerts":
			user.Settings.EmailAlerts = value.(bool)
		case "push_notifications":
			user.Settings.PushNotifications = value.(bool)
		case "sms_alerts":
			user.Settings.SMSAlerts = value.(bool)
		case "digest_frequency":
			user.Settings.DigestFrequency = models.DigestFrequency(value.(string))
		case "security_alerts":
			user.Settings.SecurityAlerts = value.(bool)
		case "mentions":
			user.Settings.Mentions = value.(bool)
		case "weekly_summary":
			user.Settings.WeeklySummary = value.(bool)
		case "product_updates":
			user.Settings.ProductUpdates = value.(bool)
		case "dnd_enabled":
			user.Settings.DNDEnabled = value.(bool)
		case "dnd_start_time":
			user.Settings.DNDStartTime = value.(string)
		case "dnd_end_time":
			user.Settings.DNDEndTime = value.(string)
		case "profile_searchable":
			user.Settings.ProfileSearchable = value.(bool)
		case "messages_from_anyone":
			user.Settings.MessagesFromAnyone = value.(bool)
		case "show_online_status":
			user.Settings.ShowOnlineStatus = value.(bool)
		case "two_factor_enabled":
			user.Settings.TwoFactorEnabled = value.(bool)
		case "login_alerts":
			user.Settings.LoginAlerts = value.(bool)
		case "analytics_enabled":
			user.Settings.AnalyticsEnabled = value.(bool)
		case "personalized_ads":
			user.Settings.PersonalizedAds = value.(bool)
		}
	}
}

func (r *FakeUserRepository) UpdatePasswordHash(userID, hash string) error {
	return r.UpdateFields(userID, map[string]interface{}{"password_hash": hash})
}

func (r *FakeUserRepository) UpdateLastLogin(userID string) error {
	return r.UpdateFields(userID, map[string]interface{}{"last_login": time.Now()})
}

func (r *FakeUserRepository) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *FakeUserRepository) FindWithFilter(filter repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.User
	for _, user := range r.users {
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsStaff != nil && user.IsStaff != *filter.IsStaff {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(user.Email + " " + user.Username + " " + user.FirstName + " " + user.LastName)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, *user)
	}

	total := int64(len(matched))

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r *FakeUserRepository) SetActive(userID string, active bool) error {
	return r.UpdateFields(userID, map[string]interface{}{"is_active": active})
}

// FakeBlacklistedTokenRepository - in-memory блэклист по jti
type FakeBlacklistedTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewFakeBlacklistedTokenRepository() *FakeBlacklistedTokenRepository {
	return &FakeBlacklistedTokenRepository{tokens: make(map[string]time.Time)}
}

func (r *FakeBlacklistedTokenRepository) Add(token *models.BlacklistedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Повторное добавление того же jti - no-op, как и в настоящей реализации
	r.tokens[token.JTI] = token.ExpiresAt
	return nil
}

func (r *FakeBlacklistedTokenRepository) IsBlacklisted(jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[jti]
	return ok, nil
}

func (r *FakeBlacklistedTokenRepository) PurgeExpired() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for jti, expiresAt := range r.tokens {
		if expiresAt.Before(now) {
			delete(r.tokens, jti)
		}
	}
	return nil
}
