package requests

type (
	// Тело запроса - Вход
	LoginRequest struct {
		StudentID string `json:"studentId"`
		Password  string `json:"password"`
	}

	// Тело запроса - Регистрация
	RegisterRequest struct {
		StudentID string `json:"studentId"`
		Name      string `json:"name"`
		Surname   string `json:"surname"`
		Password  string `json:"password"`
	}

	// Тело запроса - Бронирование
	ReservationRequest struct {
		EventID int64 `json:"eventId"`
		Status  bool  `json:"status"`
	}
)
