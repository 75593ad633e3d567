package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the site server, the content service and sitectl.
// Init(level) picks the threshold; SetOutput redirects lines (tests capture them).

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu     sync.RWMutex
	logger = log.New(os.Stdout, "", 0)
	level  = LevelInfo
	exit   = os.Exit
)

// ParseLevel maps text (case-insensitive) to a Level. Unknown input is Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// Init sets the global log level. Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// SetOutput replaces the destination of every log line.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func emit(l Level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	head := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(levelNames[l]))
	logger.Printf(head+format, v...)
}

func Debugf(format string, v ...interface{}) { emit(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, format, v...) }

// Fatalf always logs, then exits the process.
func Fatalf(format string, v ...interface{}) {
	mu.RLock()
	head := fmt.Sprintf("%s [FATAL] ", time.Now().Format(time.RFC3339))
	logger.Printf(head+format, v...)
	mu.RUnlock()
	exit(1)
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// Component returns a logger that prefixes every line with "[name] ".
func Component(name string) *Scoped {
	return &Scoped{prefix: "[" + name + "] "}
}

// Scoped prefixes messages with a component tag.
type Scoped struct {
	prefix string
}

func (s *Scoped) Debugf(format string, v ...interface{}) { emit(LevelDebug, s.prefix+format, v...) }
func (s *Scoped) Infof(format string, v ...interface{})  { emit(LevelInfo, s.prefix+format, v...) }
func (s *Scoped) Warnf(format string, v ...interface{})  { emit(LevelWarn, s.prefix+format, v...) }
func (s *Scoped) Errorf(format string, v ...interface{}) { emit(LevelError, s.prefix+format, v...) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[level]
}
