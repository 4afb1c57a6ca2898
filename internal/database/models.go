package database

// Виды многошаговых диалогов
type FlowKind string

const (
	FLOW_REGISTRATION FlowKind = "registration"
	FLOW_LOGIN        FlowKind = "login"
	FLOW_BOOKING      FlowKind = "booking"
)

// Шаг диалога. Значение всегда содержит префикс диалога, поэтому шаги разных
// диалогов не пересекаются.
type Step string

const (
	// регистрация
	REG_AWAITING_NAME       Step = "registration:awaiting_name"
	REG_AWAITING_SURNAME    Step = "registration:awaiting_surname"
	REG_AWAITING_STUDENT_ID Step = "registration:awaiting_student_id"
	REG_AWAITING_PASSWORD   Step = "registration:awaiting_password"

	// вход
	LOGIN_AWAITING_STUDENT_ID Step = "login:awaiting_student_id"
	LOGIN_AWAITING_PASSWORD   Step = "login:awaiting_password"

	// бронирование
	BOOK_AWAITING_EVENT_ID Step = "booking:awaiting_event_id"
	BOOK_AWAITING_PASSWORD Step = "booking:awaiting_password"
)

// Ключи временных данных диалога (flowScratch)
const (
	VAR_NAME       = "name"
	VAR_SURNAME    = "surname"
	VAR_STUDENT_ID = "student_id"
	VAR_EVENT_ID   = "event_id"
	VAR_EVENT_NAME = "event_name"
)

// таблица переходов: шаги каждого диалога строго по порядку
var flowSteps = map[FlowKind][]Step{
	FLOW_REGISTRATION: {REG_AWAITING_NAME, REG_AWAITING_SURNAME, REG_AWAITING_STUDENT_ID, REG_AWAITING_PASSWORD},
	FLOW_LOGIN:        {LOGIN_AWAITING_STUDENT_ID, LOGIN_AWAITING_PASSWORD},
	FLOW_BOOKING:      {BOOK_AWAITING_EVENT_ID, BOOK_AWAITING_PASSWORD},
}

// FirstStep - начальный шаг диалога.
func FirstStep(flow FlowKind) (Step, bool) {
	steps, ok := flowSteps[flow]
	if !ok || len(steps) == 0 {
		return "", false
	}
	return steps[0], true
}

// NextStep - следующий шаг диалога. false если шаг последний (дальше только commit)
// или шаг не принадлежит диалогу.
func NextStep(flow FlowKind, current Step) (Step, bool) {
	steps := flowSteps[flow]
	for i, s := range steps {
		if s == current {
			if i+1 < len(steps) {
				return steps[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// BelongsTo - проверить что шаг относится к диалогу
func BelongsTo(flow FlowKind, step Step) bool {
	for _, s := range flowSteps[flow] {
		if s == step {
			return true
		}
	}
	return false
}
