package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Sink receives fire-and-forget operator notifications. Implementations must
// never block the mutation path; no return value is consumed.
type Sink interface {
	Success(message string)
	Error(message string)
}

// NewZapSink routes notifications to the service log.
func NewZapSink(logger *zap.Logger) Sink {
	return zapSink{logger: logger}
}

type zapSink struct {
	logger *zap.Logger
}

func (s zapSink) Success(message string) {
	s.logger.Info(message, zap.String("notice", "success"))
}

func (s zapSink) Error(message string) {
	s.logger.Warn(message, zap.String("notice", "error"))
}

// NewWriterSink prints notifications to w, one per line. Used by the CLI.
func NewWriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

type writerSink struct {
	w io.Writer
}

func (s writerSink) Success(message string) {
	fmt.Fprintf(s.w, "ok: %s\n", message)
}

func (s writerSink) Error(message string) {
	fmt.Fprintf(s.w, "error: %s\n", message)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, message)
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, message)
}
