package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, неверный токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав:
	// не владелец квиза, неверный PIN, чужая попытка.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации при создании/обновлении квиза.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidSubmission используется для некорректного payload ответов при сдаче квиза.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrConflict используется для конфликтов состояния (например, занятый email).
	ErrConflict = errors.New("resource state conflict")
)
