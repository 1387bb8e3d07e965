package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DailyLogger writes to <dir>/<name>-YYYY-MM-DD.log and mirrors every line
// to an optional extra writer (stderr in production).
type DailyLogger struct {
	dir    string
	name   string
	mirror io.Writer
	now    func() time.Time

	mu     sync.Mutex
	date   string
	file   *os.File
	logger *log.Logger
}

func NewDailyLogger(dir, name string, mirror io.Writer) (*DailyLogger, error) {
	l := &DailyLogger{
		dir:    dir,
		name:   name,
		mirror: mirror,
		now:    time.Now,
	}
	if err := l.rotateIfNeeded(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *DailyLogger) rotateIfNeeded() error {
	today := l.now().Format("2006-01-02")

	if l.file != nil && l.date == today {
		return nil
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return err
	}

	if l.file != nil {
		_ = l.file.Close()
	}

	path := filepath.Join(
		l.dir,
		l.name+"-"+today+".log",
	)

	f, err := os.OpenFile(
		path,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return err
	}

	var out io.Writer = f
	if l.mirror != nil {
		out = io.MultiWriter(f, l.mirror)
	}

	l.file = f
	l.date = today
	l.logger = log.New(
		out,
		"",
		log.Ldate|log.Ltime|log.Lmicroseconds,
	)

	return nil
}

// Path returns the file currently written to.
func (l *DailyLogger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

func (l *DailyLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.rotateIfNeeded()
	if l.logger != nil {
		l.logger.Printf(format, v...)
	}
}

func (l *DailyLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.logger = nil
	return err
}
