// Package utils предоставляет простой файловый логгер для TUI приложений.
//
// TUI рисует в stdout, поэтому логи уходят в .log файл рядом с бинарником.
// Thread-safe через sync.Mutex.
package utils

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	logFile     *os.File
	logMutex    sync.Mutex
	initialized bool
	debugOn     bool
)

// InitLogger создает/открывает .log файл в текущей директории.
//
// Имя файла: kadr-YYYY-MM-DD-HH-MM.log (например, kadr-2026-08-31-15-30.log)
// Файл создаётся в той же директории, откуда запущена утилита.
func InitLogger() error {
	logMutex.Lock()
	defer logMutex.Unlock()

	if initialized {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02-15-04")
	filename := fmt.Sprintf("kadr-%s.log", timestamp)

	var err error
	logFile, err = os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	initialized = true
	// Пишем напрямую без Info чтобы избежать deadlock (мьютекс уже захвачен)
	now := time.Now().Format("2006-01-02 15:04:05")
	if _, err := logFile.WriteString(fmt.Sprintf("[%s] INFO: Logger initialized file=%s\n", now, filename)); err != nil {
		fmt.Fprintf(os.Stderr, "[LOGGER ERROR: WriteString failed: %v]\n", err)
	}

	return nil
}

// SetDebug включает/выключает запись Debug сообщений (app.debug в конфиге).
func SetDebug(on bool) {
	logMutex.Lock()
	defer logMutex.Unlock()
	debugOn = on
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	write("INFO", msg, keyvals...)
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	write("ERROR", msg, keyvals...)
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	write("WARN", msg, keyvals...)
}

// Debug - отладочное сообщение. Пишется только при SetDebug(true).
func Debug(msg string, keyvals ...any) {
	logMutex.Lock()
	on := debugOn
	logMutex.Unlock()
	if !on {
		return
	}
	write("DEBUG", msg, keyvals...)
}

// write - внутренняя функция записи в лог.
//
// Формат: [YYYY-MM-DD HH:MM:SS] LEVEL: message key1=value1 key2=value2
// При ошибке записи в файл, fallback на stderr.
func write(level, msg string, keyvals ...any) {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	for i := 0; i+1 < len(keyvals); i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}

	line += "\n"

	if _, err := logFile.WriteString(line); err != nil {
		// Fallback: если файл недоступен, пишем в stderr
		fmt.Fprintf(os.Stderr, "%s", line)
		fmt.Fprintf(os.Stderr, "[LOGGER ERROR: WriteString failed: %v]\n", err)
		return
	}

	if err := logFile.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Sync failed: %v]\n", err)
	}
}

// Close закрывает лог-файл.
//
// Вызывается через defer в main().
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
		}
		logFile = nil
		initialized = false
	}
}
