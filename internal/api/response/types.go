package response

type (
	// Описание объекта - Событие
	Event struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		Description   string `json:"description"`
		Type          string `json:"type"`
		AvailableFrom string `json:"availableFrom"`
		AvailableTo   string `json:"availableTo"`
		Status        bool   `json:"status"`
	}

	// Описание объекта - Бронирование
	Reservation struct {
		ID      int64 `json:"id"`
		EventID int64 `json:"eventId"`
		// ID студента, которому принадлежит бронь
		CheckIn string `json:"checkIn"`
		Status  bool   `json:"status"`
	}

	// Описание объекта - Пользователь
	User struct {
		ID        int64  `json:"id"`
		StudentID string `json:"studentId"`
		Name      string `json:"name"`
		Surname   string `json:"surname"`
	}

	// Тело ответа с ошибкой
	ApiError struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
)

// FilterByOwner - бронирования конкретного студента. На стороне API такого
// фильтра нет.
func FilterByOwner(reservations []Reservation, studentID string) []Reservation {
	result := make([]Reservation, 0)
	if studentID == "" {
		return result
	}
	for _, r := range reservations {
		if r.CheckIn == studentID {
			result = append(result, r)
		}
	}
	return result
}
