package opt

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"bitGA/internal/rng"
)

var (
	// ErrInvalidConfiguration — некорректные параметры запуска; обнаруживается до первого поколения.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEmptyPopulation — выбор из пустой последовательности.
	ErrEmptyPopulation = rng.ErrEmpty
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Invalid оборачивает описание ошибки в ErrInvalidConfiguration.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// ValidateStruct проверяет структуру по тегам validate.
// Возвращается только первая ошибка, чтобы сообщение оставалось читаемым.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return Invalid("поле %s не удовлетворяет правилу %s=%s (получено %v)",
			fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
}
