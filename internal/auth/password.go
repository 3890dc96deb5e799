package auth

import (
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет сложность пароля по минимальной энтропии (бит).
// Порог приходит из конфигурации; текст ошибки библиотеки подсказывает,
// чего не хватает (длина, регистр, спецсимволы).
func ValidatePassword(password string, minEntropy float64) error {
	return passwordvalidator.Validate(password, minEntropy)
}
