package bot

import (
	"strconv"
	"strings"

	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/botconfig_parser"
	"event-booking-bot/internal/chat"
)

// сколько элементов показывать в одном сообщении
const PAGE_SIZE = 10

// renderEvents - список событий и кнопка на каждое показанное событие
func renderEvents(m *botconfig_parser.Messages, header string, events []response.Event) (string, chat.Keyboard) {
	shown := events[:min(len(events), PAGE_SIZE)]

	lines := []string{header, ""}
	keyboard := make(chat.Keyboard, 0, len(shown))
	for _, e := range shown {
		id := strconv.FormatInt(e.ID, 10)
		lines = append(lines, botconfig_parser.Format(m.Events.Item,
			"name", e.Name,
			"id", id,
			"status", eventStatus(m, e.Status),
		))
		keyboard = append(keyboard, []chat.Button{{
			Text: botconfig_parser.Format(m.Events.ButtonText, "name", e.Name, "id", id),
			Data: CALLBACK_EVENT + id,
		}})
	}

	if len(events) > len(shown) {
		lines = append(lines, "", botconfig_parser.Format(m.Events.More,
			"shown", strconv.Itoa(len(shown)),
			"total", strconv.Itoa(len(events)),
		))
	}

	return strings.Join(lines, "\n"), keyboard
}

func renderEventDetails(m *botconfig_parser.Messages, e response.Event) string {
	return botconfig_parser.Format(m.Events.Details,
		"name", e.Name,
		"type", orDash(e.Type),
		"description", orDash(e.Description),
		"from", orDash(e.AvailableFrom),
		"to", orDash(e.AvailableTo),
		"status", eventStatus(m, e.Status),
		"id", strconv.FormatInt(e.ID, 10),
	)
}

// renderReservations - бронирования с названиями событий. Если название
// не удалось получить, показывается номер события.
func renderReservations(m *botconfig_parser.Messages, reservations []response.Reservation, names map[int64]string) string {
	shown := reservations[:min(len(reservations), PAGE_SIZE)]

	lines := []string{botconfig_parser.Format(m.Reservations.Header, "total", strconv.Itoa(len(reservations))), ""}
	for _, r := range shown {
		name, ok := names[r.EventID]
		if !ok {
			name = botconfig_parser.Format(m.Reservations.UnknownEvent, "id", strconv.FormatInt(r.EventID, 10))
		}
		status := m.Reservations.Cancelled
		if r.Status {
			status = m.Reservations.Active
		}
		lines = append(lines, botconfig_parser.Format(m.Reservations.Item,
			"event", name,
			"id", strconv.FormatInt(r.ID, 10),
			"status", status,
		))
	}

	if len(reservations) > len(shown) {
		lines = append(lines, "", botconfig_parser.Format(m.Reservations.More,
			"shown", strconv.Itoa(len(shown)),
			"total", strconv.Itoa(len(reservations)),
		))
	}

	return strings.Join(lines, "\n")
}

func eventStatus(m *botconfig_parser.Messages, active bool) string {
	if active {
		return m.Events.Active
	}
	return m.Events.Inactive
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
