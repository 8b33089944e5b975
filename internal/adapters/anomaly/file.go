package anomaly

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const separator = "----------------"

// Options configura la rotación del fichero.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FileLog es un log append-only de respuestas de market data malformadas.
// Cada entrada: línea separadora, timestamp y ticker, payload crudo.
type FileLog struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewFileLog crea un FileLog con rotación por tamaño sobre opts.Path.
func NewFileLog(opts Options) *FileLog {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	return NewWriterLog(&lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	})
}

// NewWriterLog crea un FileLog sobre un writer arbitrario.
func NewWriterLog(w io.WriteCloser) *FileLog {
	return &FileLog{w: w}
}

// RecordMalformed añade una entrada con el payload tal cual llegó.
func (l *FileLog) RecordMalformed(_ context.Context, eventTicker string, raw []byte) error {
	entry := fmt.Sprintf("%s\n%s %s\nBad market response:%s\n",
		separator, time.Now().UTC().Format(time.RFC3339), eventTicker, raw)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.w, entry); err != nil {
		return fmt.Errorf("anomaly.RecordMalformed %s: %w", eventTicker, err)
	}
	return nil
}

// Close cierra el fichero subyacente.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}
