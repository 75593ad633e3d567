package notify

import (
	"sync"
	"time"

	"github.com/ristorante/site/pkg/logger"
)

// Notifier receives user-visible notices (the admin UI shows them as toasts).
type Notifier interface {
	Warn(msg string)
	Info(msg string)
}

const (
	LevelWarn = "warn"
	LevelInfo = "info"
)

type Notice struct {
	Level string    `json:"level"`
	Msg   string    `json:"message"`
	At    time.Time `json:"at"`
}

// Recorder logs every notice and keeps the most recent ones in memory.
type Recorder struct {
	mu      sync.Mutex
	max     int
	notices []Notice
	log     *logger.Scoped
}

// NewRecorder keeps at most max notices; max <= 0 means 50.
func NewRecorder(max int) *Recorder {
	if max <= 0 {
		max = 50
	}
	return &Recorder{max: max, log: logger.Component("notify")}
}

func (r *Recorder) Warn(msg string) {
	r.log.Warnf("%s", msg)
	r.add(LevelWarn, msg)
}

func (r *Recorder) Info(msg string) {
	r.log.Infof("%s", msg)
	r.add(LevelInfo, msg)
}

func (r *Recorder) add(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Msg: msg, At: time.Now().UTC()})
	if over := len(r.notices) - r.max; over > 0 {
		r.notices = append([]Notice(nil), r.notices[over:]...)
	}
}

// Recent returns the retained notices, oldest first.
func (r *Recorder) Recent() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Count returns how many retained notices have the given level.
func (r *Recorder) Count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.notices {
		if x.Level == level {
			n++
		}
	}
	return n
}
