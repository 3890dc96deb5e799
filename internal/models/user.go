package models

import "time"

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Профиль
	FirstName   string     `gorm:"type:varchar(150)"`
	LastName    string     `gorm:"type:varchar(150)"`
	Country     string     `gorm:"type:varchar(100)"`
	CountryCode string     `gorm:"type:varchar(10)"` // например +1, +44, +94
	Phone       string     `gorm:"type:varchar(20)"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Gender      Gender     `gorm:"type:varchar(20)"`

	// Статус аккаунта
	IsActive    bool `gorm:"default:true"`
	IsStaff     bool `gorm:"default:false"`
	IsSuperuser bool `gorm:"default:false"`
	LastLogin   *time.Time

	Settings UserSettings `gorm:"embedded"`
}

// UserSettings - пользовательские настройки интерфейса, уведомлений и приватности.
// Каждое поле независимо, без кросс-полевых инвариантов.
type UserSettings struct {
	// Внешний вид
	ThemeMode    ThemeMode   `gorm:"type:varchar(10);default:'system'"`
	AccentColor  AccentColor `gorm:"type:varchar(10);default:'blue'"`
	FontFamily   FontFamily  `gorm:"type:varchar(20);default:'inter'"`
	FontSize     int         `gorm:"default:14"`
	CompactMode  bool        `gorm:"default:false"`
	ShowTooltips bool        `gorm:"default:true"`
	Animations   bool        `gorm:"default:true"`

	// Уведомления
	EmailAlerts       bool            `gorm:"default:true"`
	PushNotifications bool            `gorm:"default:true"`
	SMSAlerts         bool            `gorm:"default:false"`
	DigestFrequency   DigestFrequency `gorm:"type:varchar(10);default:'daily'"`
	SecurityAlerts    bool            `gorm:"default:true"`
	Mentions          bool            `gorm:"default:true"`
	WeeklySummary     bool            `gorm:"default:true"`
	ProductUpdates    bool            `gorm:"default:false"`
	DNDEnabled        bool            `gorm:"default:false"`
	DNDStartTime      string          `gorm:"type:varchar(5);default:'21:00'"`
	DNDEndTime        string          `gorm:"type:varchar(5);default:'07:00'"`

	// Приватность и безопасность
	ProfileSearchable  bool `gorm:"default:false"`
	MessagesFromAnyone bool `gorm:"default:false"`
	ShowOnlineStatus   bool `gorm:"default:true"`
	TwoFactorEnabled   bool `gorm:"default:true"`
	LoginAlerts        bool `gorm:"default:true"`
	AnalyticsEnabled   bool `gorm:"default:true"`
	PersonalizedAds    bool `gorm:"default:false"`
}

// DefaultSettings возвращает настройки по умолчанию для нового аккаунта.
// Значения должны совпадать с default-тегами выше: фейковые репозитории
// в тестах не проходят через GORM и заполняют настройки этой функцией.
func DefaultSettings() UserSettings {
	return UserSettings{
		ThemeMode:         ThemeModeSystem,
		AccentColor:       AccentBlue,
		FontFamily:        FontInter,
		FontSize:          14,
		ShowTooltips:      true,
		Animations:        true,
		EmailAlerts:       true,
		PushNotifications: true,
		DigestFrequency:   DigestDaily,
		SecurityAlerts:    true,
		Mentions:          true,
		WeeklySummary:     true,
		DNDStartTime:      "21:00",
		DNDEndTime:        "07:00",
		ShowOnlineStatus:  true,
		TwoFactorEnabled:  true,
		LoginAlerts:       true,
		AnalyticsEnabled:  true,
	}
}

// BlacklistedToken - отозванный refresh token (logout).
// Ключ - jti claim токена; строки с истекшим expires_at подлежат очистке.
type BlacklistedToken struct {
	BaseModel
	JTI       string    `gorm:"uniqueIndex;not null"`
	UserID    string    `gorm:"index"`
	ExpiresAt time.Time `gorm:"not null"`
}
