package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

var (
	isDebug = false

	CritColor    = color.RGB(255, 0, 0).SprintFunc()
	ErrorColor   = color.RGB(255, 80, 80).SprintFunc()
	DebugColor   = color.RGB(255, 165, 0).SprintFunc()
	WarningColor = color.RGB(255, 255, 0).SprintFunc()
	EventColor   = color.RGB(0, 255, 0).SprintFunc()
)

type (
	// Config - секция logging в основном конфиге
	Config struct {
		// Сохранять ли логи в файл
		Enabled bool `yaml:"enabled"`
		// В какую папку сохранять, по умолчанию "./log"
		Directory string `yaml:"directory"`
		// Формат даты и времени в имени файла
		FilenameFormat string `yaml:"filename_format"`
		// Цветной вывод в консоль
		Color bool `yaml:"color"`
	}
)

// InitLogger настраивает вывод. Возвращает открытый файл логов (или nil),
// его нужно закрыть при остановке.
func InitLogger(debug bool, cnf Config) *os.File {
	isDebug = debug
	color.NoColor = !cnf.Color

	log.SetPrefix("[APP] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)

	if !cnf.Enabled {
		return nil
	}

	if cnf.Directory == "" {
		cnf.Directory = "./log"
	}
	if cnf.FilenameFormat == "" {
		cnf.FilenameFormat = "app"
	}

	if err := os.MkdirAll(cnf.Directory, 0o755); err != nil {
		Warning("Could not create log directory, logs are not saved:", err)
		return nil
	}

	fileName := filepath.Join(cnf.Directory, time.Now().Format(cnf.FilenameFormat)+".log")

	logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o666)
	if err != nil {
		Warning("Could not open log file, logs are not saved:", err)
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	return logFile
}

func Info(v ...interface{}) {
	log.Print("[INFO] ", fmt.Sprintln(v...))
}

func Event(v ...interface{}) {
	log.Print(EventColor("[EVENT] ", fmt.Sprintln(v...)))
}

func Warning(v ...interface{}) {
	log.Print(WarningColor("[WARNING] ", fmt.Sprintln(v...)))
}

func Error(v ...interface{}) {
	log.Print(ErrorColor("[ERROR] ", fmt.Sprintln(v...)))
}

// Debug печатает только в режиме -debug. Не строковые значения выводятся как JSON.
func Debug(v ...interface{}) {
	if !isDebug {
		return
	}

	message := new(bytes.Buffer)
	for _, item := range v {
		if s, ok := item.(string); ok {
			_, _ = fmt.Fprintf(message, "%s ", s)
			continue
		}
		b, err := json.MarshalIndent(item, "", " ")
		if err != nil {
			_, _ = fmt.Fprintf(message, "%v ", item)
			continue
		}
		_, _ = fmt.Fprintf(message, "%s ", b)
	}

	log.Print(DebugColor("[DEBUG] ", message))
}

func Crit(v ...interface{}) {
	log.Print(CritColor("[CRITICAL] ", fmt.Sprintln(v...)))
	time.Sleep(time.Second)
	os.Exit(1)
}
