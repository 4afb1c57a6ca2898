package cache

import (
	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/database"
)

type (
	// набор данных привязываемых к пользователю бота
	Session struct {
		// пользователь вошел или зарегистрировался
		Authenticated bool `json:"authenticated"`

		// id пользователя в API
		UserID *int64 `json:"user_id,omitempty"`

		// информация о пользователе
		User *response.User `json:"user,omitempty"`

		StudentID string `json:"student_id,omitempty"`

		// пароль хранится только в памяти процесса до выхода,
		// чтобы бронирование не требовало повторного входа
		Password string `json:"password,omitempty"`

		// активный диалог и его шаг, заданы либо оба, либо ни одного
		ActiveFlow database.FlowKind `json:"active_flow,omitempty"`
		FlowState  database.Step     `json:"flow_state,omitempty"`

		// собранные, но еще не отправленные ответы
		FlowScratch map[string]string `json:"flow_scratch,omitempty"`
	}
)
