package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")

	// Контекст
	ErrActorNotFoundInContext = fmt.Errorf("пользователь не найден в контексте запроса")
)

// Kind — класс ошибки бизнес-логики. По нему контроллеры и тесты
// отличают "не найдено" от "нельзя в текущем состоянии".
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindState         Kind = "state"
	KindConflict      Kind = "conflict"
	KindInternal      Kind = "internal"
)

// HttpError — единый тип ошибки, который доходит до клиента.
// Message — человекочитаемый текст, Err — техническая причина (в ответ не попадает).
type HttpError struct {
	Code    int
	Kind    Kind
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Kind:    KindInternal,
		Message: message,
		Err:     err,
		Details: details,
	}
}

func newKindError(code int, kind Kind, format string, args ...interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Конструкторы по таксономии ядра.

func NewValidationError(format string, args ...interface{}) *HttpError {
	return newKindError(http.StatusBadRequest, KindValidation, format, args...)
}

func NewNotFoundError(format string, args ...interface{}) *HttpError {
	return newKindError(http.StatusNotFound, KindNotFound, format, args...)
}

func NewAuthorizationError(format string, args ...interface{}) *HttpError {
	return newKindError(http.StatusForbidden, KindAuthorization, format, args...)
}

func NewStateError(format string, args ...interface{}) *HttpError {
	return newKindError(http.StatusConflict, KindState, format, args...)
}

func NewConflictError(format string, args ...interface{}) *HttpError {
	return newKindError(http.StatusConflict, KindConflict, format, args...)
}

// IsKind проверяет класс ошибки по всей цепочке Unwrap.
func IsKind(err error, kind Kind) bool {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Kind == kind
	}
	return false
}
