package apperr

import (
	"errors"
	"fmt"
)

// Общие ошибки загрузки и сохранения контента.
var (
	// ErrTimeout — запрос не уложился в отведённое время.
	ErrTimeout = errors.New("timeout")
	// ErrNetwork — транспортная ошибка (DNS, отказ соединения, массовый сбой).
	ErrNetwork = errors.New("network error")
)

// ValidationError — некорректные входные данные: запрещённое имя файла,
// отсутствующее обязательное поле, битое тело запроса.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf создаёт ValidationError с форматированием.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError — внешний API ответил не-2xx статусом.
// Сообщение передаётся вызывающему как есть.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

// Upstream создаёт UpstreamError.
func Upstream(status int, message string) *UpstreamError {
	return &UpstreamError{Status: status, Message: message}
}
