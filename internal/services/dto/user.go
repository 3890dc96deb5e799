package dto

import (
	"time"

	"accounts_backend/internal/models"
)

// UserResponse - публичная проекция аккаунта. Хеш пароля и служебные
// флаги наружу не отдаются.
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Phone       string  `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      string  `json:"gender"`
	DateJoined  string  `json:"date_joined"`

	// Настройки
	ThemeMode    string `json:"theme_mode"`
	AccentColor  string `json:"accent_color"`
	FontFamily   string `json:"font_family"`
	FontSize     int    `json:"font_size"`
	CompactMode  bool   `json:"compact_mode"`
	ShowTooltips bool   `json:"show_tooltips"`
	Animations   bool   `json:"animations"`

	EmailAlerts       bool   `json:"email_alerts"`
	PushNotifications bool   `json:"push_notifications"`
	SMSAlerts         bool   `json:"sms_alerts"`
	DigestFrequency   string `json:"digest_frequency"`
	SecurityAlerts    bool   `json:"security_alerts"`
	Mentions          bool   `json:"mentions"`
	WeeklySummary     bool   `json:"weekly_summary"`
	ProductUpdates    bool   `json:"product_updates"`
	DNDEnabled        bool   `json:"dnd_enabled"`
	DNDStartTime      string `json:"dnd_start_time"`
	DNDEndTime        string `json:"dnd_end_time"`

	ProfileSearchable  bool `json:"profile_searchable"`
	MessagesFromAnyone bool `json:"messages_from_anyone"`
	ShowOnlineStatus   bool `json:"show_online_status"`
	TwoFactorEnabled   bool `json:"two_factor_enabled"`
	LoginAlerts        bool `json:"login_alerts"`
	AnalyticsEnabled   bool `json:"analytics_enabled"`
	PersonalizedAds    bool `json:"personalized_ads"`
}

// NewUserResponse строит публичную проекцию из модели
func NewUserResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Country:     user.Country,
		CountryCode: user.CountryCode,
		Phone:       user.Phone,
		Gender:      string(user.Gender),
		DateJoined:  user.CreatedAt.Format(time.RFC3339),

		ThemeMode:    string(user.Settings.ThemeMode),
		AccentColor:  string(user.Settings.AccentColor),
		FontFamily:   string(user.Settings.FontFamily),
		FontSize:     user.Settings.FontSize,
		CompactMode:  user.Settings.CompactMode,
		ShowTooltips: user.Settings.ShowTooltips,
		Animations:   user.Settings.Animations,

		EmailAlerts:       user.Settings.EmailAlerts,
		PushNotifications: user.Settings.PushNotifications,
		SMSAlerts:         user.Settings.SMSAlerts,
		DigestFrequency:   string(user.Settings.DigestFrequency),
		SecurityAlerts:    user.Settings.SecurityAlerts,
		Mentions:          user.Settings.Mentions,
		WeeklySummary:     user.Settings.WeeklySummary,
		ProductUpdates:    user.Settings.ProductUpdates,
		DNDEnabled:        user.Settings.DNDEnabled,
		DNDStartTime:      user.Settings.DNDStartTime,
		DNDEndTime:        user.Settings.DNDEndTime,

		ProfileSearchable:  user.Settings.ProfileSearchable,
		MessagesFromAnyone: user.Settings.MessagesFromAnyone,
		ShowOnlineStatus:   user.Settings.ShowOnlineStatus,
		TwoFactorEnabled:   user.Settings.TwoFactorEnabled,
		LoginAlerts:        user.Settings.LoginAlerts,
		AnalyticsEnabled:   user.Settings.AnalyticsEnabled,
		PersonalizedAds:    user.Settings.PersonalizedAds,
	}

	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}

	return resp
}

// UpdateProfileRequest - частичное обновление профиля и настроек.
// nil-поле означает "не трогать"; неизвестные ключи JSON игнорируются.
type UpdateProfileRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	CountryCode *string `json:"country_code" validate:"omitempty,max=10"`
	Phone       *string `json:"phone" validate:"omitempty,phone"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" validate:"omitempty,is-gender"`

	ThemeMode    *string `json:"theme_mode" validate:"omitempty,oneof=system light dark"`
	AccentColor  *string `json:"accent_color" validate:"omitempty,oneof=blue emerald amber indigo"`
	FontFamily   *string `json:"font_family" validate:"omitempty,oneof=inter manrope roboto workSans"`
	FontSize     *int    `json:"font_size" validate:"omitempty,min=12,max=18"`
	CompactMode  *bool   `json:"compact_mode"`
	ShowTooltips *bool   `json:"show_tooltips"`
	Animations   *bool   `json:"animations"`

	EmailAlerts       *bool   `json:"email_alerts"`
	PushNotifications *bool   `json:"push_notifications"`
	SMSAlerts         *bool   `json:"sms_alerts"`
	DigestFrequency   *string `json:"digest_frequency" validate:"omitempty,oneof=instant hourly daily weekly"`
	SecurityAlerts    *bool   `json:"security_alerts"`
	Mentions          *bool   `json:"mentions"`
	WeeklySummary     *bool   `json:"weekly_summary"`
	ProductUpdates    *bool   `json:"product_updates"`
	DNDEnabled        *bool   `json:"dnd_enabled"`
	DNDStartTime      *string `json:"dnd_start_time" validate:"omitempty,datetime=15:04"`
	DNDEndTime        *string `json:"dnd_end_time" validate:"omitempty,datetime=15:04"`

	ProfileSearchable  *bool `json:"profile_searchable"`
	MessagesFromAnyone *bool `json:"messages_from_anyone"`
	ShowOnlineStatus   *bool `json:"show_online_status"`
	TwoFactorEnabled   *bool `json:"two_factor_enabled"`
	LoginAlerts        *bool `json:"login_alerts"`
	AnalyticsEnabled   *bool `json:"analytics_enabled"`
	PersonalizedAds    *bool `json:"personalized_ads"`
}

// ProfileResponse - обертка ответа профиля
type ProfileResponse struct {
	User    *UserResponse `json:"user"`
	Message string        `json:"message,omitempty"`
}

// AdminUserFilter - фильтр списка пользователей для staff
type AdminUserFilter struct {
	IsActive *bool  `form:"is_active"`
	IsStaff  *bool  `form:"is_staff"`
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminUserListResponse - страница списка пользователей
type AdminUserListResponse struct {
	Users    []AdminUserItem `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// AdminUserItem - строка админского списка (с флагами статуса)
type AdminUserItem struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsActive  bool       `json:"is_active"`
	IsStaff   bool       `json:"is_staff"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}
