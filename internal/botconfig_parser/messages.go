package botconfig_parser

import (
	"strings"

	"event-booking-bot/internal/chat"
)

// Messages - все тексты бота и меню команд. Задаются в bot.yml, незаданные
// берутся по умолчанию.
type Messages struct {
	// меню команд, которое отправляется в мессенджер при старте
	Commands []chat.Command `yaml:"commands"`

	Buttons struct {
		Register string `yaml:"register"`
		Login    string `yaml:"login"`
		Book     string `yaml:"book"`
	} `yaml:"buttons"`

	Start struct {
		Guest string `yaml:"guest"`
		// {name}
		User string `yaml:"user"`
	} `yaml:"start"`

	Help struct {
		Guest string `yaml:"guest"`
		User  string `yaml:"user"`
	} `yaml:"help"`

	Registration struct {
		AskName      string `yaml:"ask_name"`
		AskSurname   string `yaml:"ask_surname"`
		AskStudentID string `yaml:"ask_student_id"`
		AskPassword  string `yaml:"ask_password"`
		// {name} {surname} {student_id}
		Success string `yaml:"success"`
		// {error}
		Failed string `yaml:"failed"`
	} `yaml:"registration"`

	Login struct {
		AskStudentID string `yaml:"ask_student_id"`
		AskPassword  string `yaml:"ask_password"`
		// {name} {surname}
		Success string `yaml:"success"`
		// {error}
		Failed string `yaml:"failed"`
	} `yaml:"login"`

	Booking struct {
		AskEventID     string `yaml:"ask_event_id"`
		InvalidEventID string `yaml:"invalid_event_id"`
		// {id}
		EventNotFound string `yaml:"event_not_found"`
		// {event}
		AskPassword string `yaml:"ask_password"`
		// {event} {reservation_id}
		Success string `yaml:"success"`
		// {error}
		AuthFailed string `yaml:"auth_failed"`
		// {error}
		Failed string `yaml:"failed"`
	} `yaml:"booking"`

	Events struct {
		Empty string `yaml:"empty"`
		// {total}
		Header string `yaml:"header"`
		// {name} {id} {status}
		Item string `yaml:"item"`
		// {shown} {total}
		More string `yaml:"more"`
		// {name} {type} {description} {from} {to} {status} {id}
		Details  string `yaml:"details"`
		Active   string `yaml:"active"`
		Inactive string `yaml:"inactive"`
		// {name} {id}
		ButtonText string `yaml:"button_text"`
		Usage      string `yaml:"usage"`
		BadID      string `yaml:"bad_id"`
		// {from} {to}
		SearchHeader string `yaml:"search_header"`
		SearchUsage  string `yaml:"search_usage"`
		SearchEmpty  string `yaml:"search_empty"`
	} `yaml:"events"`

	Reservations struct {
		Empty string `yaml:"empty"`
		// {total}
		Header string `yaml:"header"`
		// {event} {id} {status}
		Item string `yaml:"item"`
		// {shown} {total}
		More      string `yaml:"more"`
		Active    string `yaml:"active"`
		Cancelled string `yaml:"cancelled"`
		// {id}
		UnknownEvent string `yaml:"unknown_event"`
	} `yaml:"reservations"`

	// сообщения об ошибках
	ErrorMessages struct {
		AlreadyAuthenticated string `yaml:"already_authenticated"`
		AuthRequired         string `yaml:"auth_required"`
		NotAuthenticated     string `yaml:"not_authenticated"`
		// {flow}
		FlowActive     string `yaml:"flow_active"`
		EmptyInput     string `yaml:"empty_input"`
		Transport      string `yaml:"transport"`
		CommandUnknown string `yaml:"command_unknown"`
		// {error}
		Generic string `yaml:"generic"`
	} `yaml:"error_messages"`

	Cancelled string `yaml:"cancelled"`
	LoggedOut string `yaml:"logged_out"`

	// названия диалогов для сообщения FlowActive
	FlowNames map[string]string `yaml:"flow_names"`
}

// Format подставляет значения в шаблон вида "Привет, {name}!".
// kv - пары ключ, значение.
func Format(tpl string, kv ...string) string {
	if len(kv) == 0 {
		return tpl
	}
	oldnew := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		oldnew = append(oldnew, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(tpl)
}
