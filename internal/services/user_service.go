package services

import (
	"net/http"
	"time"

	"accounts_backend/internal/appErrors"
	"accounts_backend/internal/auth"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/services/dto"
)

const (
	msgEmailTakenByOther    = "This email address is already taken by another profile. Please choose a different email address."
	msgOldPasswordIncorrect = "The current password you entered is incorrect. Please enter your correct current password to continue."
	msgNewPasswordsMismatch = "Your new passwords do not match. Please ensure both new password fields contain the exact same password."
)

type UserService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
	DeleteAccount(userID, password string) error

	// Админ-операции
	ListUsers(filter *dto.AdminUserFilter) (*dto.AdminUserListResponse, error)
	SetUserActive(userID string, active bool) error
}

type UserServiceImpl struct {
	userRepo   repositories.UserRepository
	minEntropy float64
}

func NewUserService(userRepo repositories.UserRepository, minEntropy float64) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		minEntropy: minEntropy,
	}
}

// GetProfile возвращает публичную проекцию аккаунта
func (s *UserServiceImpl) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile - частичное обновление профиля и настроек.
// nil-поля не трогаются; смена email на текущее значение - no-op.
func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepo.EmailExists(*req.Email, userID)
		if err != nil {
			return nil, appErrors.InternalError(err)
		}
		if taken {
			return nil, appErrors.ErrEmailAlreadyExists.WithDetails(map[string]string{
				"email": msgEmailTakenByOther,
			})
		}
	}

	fields, err := buildUpdateFields(req)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			// Гонка смены email: unique constraint базы - последняя инстанция
			if appErrors.Is(err, repositories.ErrEmailTaken) {
				return nil, appErrors.ErrEmailAlreadyExists.WithDetails(map[string]string{
					"email": msgEmailTakenByOther,
				})
			}
			if appErrors.Is(err, repositories.ErrUserNotFound) {
				return nil, appErrors.ErrUserNotFound
			}
			return nil, appErrors.InternalError(err)
		}
	}

	updated, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}
	return dto.NewUserResponse(updated), nil
}

// buildUpdateFields собирает карту колонок из заполненных полей запроса
func buildUpdateFields(req *dto.UpdateProfileRequest) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Country != nil {
		fields["country"] = *req.Country
	}
	if req.CountryCode != nil {
		fields["country_code"] = *req.CountryCode
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, appErrors.FieldError("date_of_birth", "Must be a valid date in YYYY-MM-DD format")
		}
		fields["date_of_birth"] = dob
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}

	if req.ThemeMode != nil {
		fields["theme_mode"] = *req.ThemeMode
	}
	if req.AccentColor != nil {
		fields["accent_color"] = *req.AccentColor
	}
	if req.FontFamily != nil {
		fields["font_family"] = *req.FontFamily
	}
	if req.FontSize != nil {
		fields["font_size"] = *req.FontSize
	}
	if req.CompactMode != nil {
		fields["compact_mode"] = *req.CompactMode
	}
	if req.ShowTooltips != nil {
		fields["show_tooltips"] = *req.ShowTooltips
	}
	if req.Animations != nil {
		fields["animations"] = *req.Animations
	}

	if req.EmailAlerts != nil {
		fields["email_alerts"] = *req.EmailAlerts
	}
	if req.PushNotifications != nil {
		fields["push_notifications"] = *req.PushNotifications
	}
	if req.SMSAlerts != nil {
		fields["sms_alerts"] = *req.SMSAlerts
	}
	if req.DigestFrequency != nil {
		fields["digest_frequency"] = *req.DigestFrequency
	}
	if req.SecurityAlerts != nil {
		fields["security_alerts"] = *req.SecurityAlerts
	}
	if req.Mentions != nil {
		fields["mentions"] = *req.Mentions
	}
	if req.WeeklySummary != nil {
		fields["weekly_summary"] = *req.WeeklySummary
	}
	if req.ProductUpdates != nil {
		fields["product_updates"] = *req.ProductUpdates
	}
	if req.DNDEnabled != nil {
		fields["dnd_enabled"] = *req.DNDEnabled
	}
	if req.DNDStartTime != nil {
		fields["dnd_start_time"] = *req.DNDStartTime
	}
	if req.DNDEndTime != nil {
		fields["dnd_end_time"] = *req.DNDEndTime
	}

	if req.ProfileSearchable != nil {
		fields["profile_searchable"] = *req.ProfileSearchable
	}
	if req.MessagesFromAnyone != nil {
		fields["messages_from_anyone"] = *req.MessagesFromAnyone
	}
	if req.ShowOnlineStatus != nil {
		fields["show_online_status"] = *req.ShowOnlineStatus
	}
	if req.TwoFactorEnabled != nil {
		fields["two_factor_enabled"] = *req.TwoFactorEnabled
	}
	if req.LoginAlerts != nil {
		fields["login_alerts"] = *req.LoginAlerts
	}
	if req.AnalyticsEnabled != nil {
		fields["analytics_enabled"] = *req.AnalyticsEnabled
	}
	if req.PersonalizedAds != nil {
		fields["personalized_ads"] = *req.PersonalizedAds
	}

	return fields, nil
}

// ChangePassword - смена пароля. Вызывающий уже аутентифицирован,
// поэтому ошибка текущего пароля конкретная, а не обобщенная.
func (s *UserServiceImpl) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return appErrors.New(appErrors.CodePasswordIncorrect, "Incorrect password", http.StatusBadRequest).
			WithDetails(map[string]string{"old_password": msgOldPasswordIncorrect})
	}

	if req.NewPassword != req.NewPassword2 {
		return appErrors.FieldError("new_password", msgNewPasswordsMismatch)
	}

	if err := auth.ValidatePassword(req.NewPassword, s.minEntropy); err != nil {
		return appErrors.ErrWeakPassword.WithDetails(map[string]string{
			"new_password": err.Error(),
		})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePasswordHash(userID, hash); err != nil {
		return appErrors.InternalError(err)
	}
	return nil
}

// DeleteAccount - немедленное и необратимое удаление аккаунта
// после повторной проверки пароля.
func (s *UserServiceImpl) DeleteAccount(userID, password string) error {
	if password == "" {
		return appErrors.NewBadRequestError("Password is required to delete account")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return appErrors.ErrPasswordIncorrect
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return appErrors.InternalError(err)
	}
	return nil
}

// ListUsers - постраничный список аккаунтов для staff
func (s *UserServiceImpl) ListUsers(filter *dto.AdminUserFilter) (*dto.AdminUserListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	users, total, err := s.userRepo.FindWithFilter(repositories.UserFilter{
		IsActive: filter.IsActive,
		IsStaff:  filter.IsStaff,
		Search:   filter.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	items := make([]dto.AdminUserItem, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, dto.AdminUserItem{
			ID:        u.ID,
			Email:     u.Email,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			IsActive:  u.IsActive,
			IsStaff:   u.IsStaff,
			LastLogin: u.LastLogin,
			CreatedAt: u.CreatedAt,
		})
	}

	return &dto.AdminUserListResponse{
		Users:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// SetUserActive включает/отключает аккаунт администратором
func (s *UserServiceImpl) SetUserActive(userID string, active bool) error {
	if err := s.userRepo.SetActive(userID, active); err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}
	return nil
}
