package cache

import (
	"fmt"

	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/database"
)

// InFlow - идет ли сейчас какой-либо диалог
func (s *Session) InFlow() bool {
	return s.ActiveFlow != ""
}

// StartFlow начинает диалог с первого шага. false если другой диалог уже идет.
func (s *Session) StartFlow(flow database.FlowKind) bool {
	if s.InFlow() {
		return false
	}
	first, ok := database.FirstStep(flow)
	if !ok {
		return false
	}

	s.ActiveFlow = flow
	s.FlowState = first
	s.FlowScratch = make(map[string]string)
	return true
}

// Advance переводит диалог на следующий шаг по таблице переходов.
func (s *Session) Advance() bool {
	next, ok := database.NextStep(s.ActiveFlow, s.FlowState)
	if !ok {
		return false
	}
	s.FlowState = next
	return true
}

// EndFlow завершает диалог и очищает собранные данные
func (s *Session) EndFlow() {
	s.ActiveFlow = ""
	s.FlowState = ""
	s.FlowScratch = nil
}

// Cancel - прервать диалог, сохранив данные авторизации.
// Сессия заменяется целиком: остаются только userId, пользователь, studentId и пароль.
func (s *Session) Cancel() {
	restored := Session{}
	if s.UserID != nil {
		restored.Authenticated = s.Authenticated
		restored.UserID = s.UserID
		restored.User = s.User
		restored.StudentID = s.StudentID
		restored.Password = s.Password
	}
	*s = restored
}

// Authorize сохраняет результат входа или регистрации
func (s *Session) Authorize(user response.User, studentID, password string) {
	id := user.ID
	s.Authenticated = true
	s.UserID = &id
	s.User = &user
	s.StudentID = studentID
	s.Password = password
}

// SetVar - сохранить ответ пользователя в рамках диалога
func (s *Session) SetVar(key, value string) {
	if s.FlowScratch == nil {
		s.FlowScratch = make(map[string]string)
	}
	s.FlowScratch[key] = value
}

func (s *Session) GetVar(key string) (string, bool) {
	v, ok := s.FlowScratch[key]
	return v, ok
}

// HasCredentials - можно бронировать без запроса пароля
func (s *Session) HasCredentials() bool {
	return s.StudentID != "" && s.Password != ""
}

// Check проверяет согласованность диалога в сессии
func (s *Session) Check() error {
	if (s.ActiveFlow == "") != (s.FlowState == "") {
		return fmt.Errorf("inconsistent session: flow %q, state %q", s.ActiveFlow, s.FlowState)
	}
	if s.ActiveFlow != "" && !database.BelongsTo(s.ActiveFlow, s.FlowState) {
		return fmt.Errorf("state %q does not belong to flow %q", s.FlowState, s.ActiveFlow)
	}
	if s.ActiveFlow == "" && len(s.FlowScratch) != 0 {
		return fmt.Errorf("scratch data without active flow")
	}
	return nil
}

// Empty - в сессии нет ни авторизации, ни диалога
func (s *Session) Empty() bool {
	return !s.Authenticated && s.UserID == nil && s.User == nil &&
		s.StudentID == "" && s.Password == "" && !s.InFlow() && len(s.FlowScratch) == 0
}
