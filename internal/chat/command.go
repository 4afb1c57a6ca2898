package chat

import (
	"strings"
	"unicode"

	"github.com/kballard/go-shellquote"
)

// ParseCommand разбирает "/event@my_bot 42" в ("event", ["42"]).
// Аргументы разбираются как в shell, так что можно передать значение с пробелами в кавычках.
func ParseCommand(text string) (name string, args []string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}

	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], text[i:]
	}
	name = strings.TrimPrefix(head, "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}

	args, err := shellquote.Split(rest)
	if err != nil {
		// незакрытая кавычка и т.п. - отдаем как есть, по пробелам
		args = strings.Fields(rest)
	}

	return strings.ToLower(name), args, true
}
