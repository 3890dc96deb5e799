package validator

import (
	"log"
	"strings"

	"accounts_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - ошибка времени запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-gender': проверяет значение пола
	mustRegister("is-gender", validateGender)

	// 'phone': свободный формат телефона
	mustRegister("phone", validatePhone)
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения обрабатывает 'required'
	}

	switch models.Gender(value) {
	case models.GenderMale, models.GenderFemale, models.GenderOther, models.GenderPreferNotToSay:
		return true
	default:
		return false
	}
}

// validatePhone: после удаления '+', '-' и пробелов должны остаться
// только цифры
func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	stripped := strings.NewReplacer("+", "", "-", "", " ", "").Replace(value)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
