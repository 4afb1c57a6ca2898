package dialog

import "fmt"

type (
	// Некорректный ввод на шаге диалога. Retry - шаг повторяется, диалог не прерван.
	ValidationError struct {
		Field string
		Retry bool
	}

	// Вход в диалог отклонен: уже авторизован, не авторизован или идет другой диалог.
	// Сессия при этом не меняется.
	StateError struct {
		Reason string
	}
)

func (e *ValidationError) Error() string {
	if e.Retry {
		return fmt.Sprintf("invalid %s, step repeated", e.Field)
	}
	return fmt.Sprintf("invalid %s, flow aborted", e.Field)
}

func (e *StateError) Error() string {
	return "flow rejected: " + e.Reason
}

const (
	REASON_AUTHENTICATED     = "already authenticated"
	REASON_NOT_AUTHENTICATED = "authentication required"
	REASON_FLOW_ACTIVE       = "another flow is active"
	REASON_NO_FLOW           = "no active flow"
)
