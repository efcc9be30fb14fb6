// Package streams provides IOStreams adapters for environment.WithStreams.
// Messages can go to stdout/stderr, be discarded, be captured in memory
// buffers (optionally synchronized), or be forwarded to a slog.Logger.
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// IOStreams is the contract used by an Environment to report what it did:
// created directories go to Out, warnings go to ErrOut. Either writer may be
// nil to silence that stream.
type IOStreams interface {
	Out() io.Writer
	ErrOut() io.Writer
}

// BasicIOStreams forwards writes to the supplied io.Writer targets.
type BasicIOStreams struct {
	out    io.Writer
	errOut io.Writer
}

func (s BasicIOStreams) Out() io.Writer    { return s.out }
func (s BasicIOStreams) ErrOut() io.Writer { return s.errOut }

// Default returns streams backed by os.Stdout and os.Stderr.
func Default() BasicIOStreams {
	return Writers(os.Stdout, os.Stderr)
}

// Writers returns streams that write Out to out and ErrOut to err.
func Writers(out, err io.Writer) BasicIOStreams {
	return BasicIOStreams{out: out, errOut: err}
}

// Discard drops all output.
func Discard() BasicIOStreams {
	return Writers(io.Discard, io.Discard)
}

// syncBuffer is a mutex-protected bytes.Buffer.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func (s *syncBuffer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Reset()
}

// BuffersStreams captures output in memory. It is safe for concurrent
// writers, since directory checks may warn from several goroutines.
type BuffersStreams struct {
	out    syncBuffer
	errOut syncBuffer
}

// Buffers returns empty capturing streams.
func Buffers() *BuffersStreams { return &BuffersStreams{} }

func (b *BuffersStreams) Out() io.Writer    { return &b.out }
func (b *BuffersStreams) ErrOut() io.Writer { return &b.errOut }

// Strings returns what has been written to Out and ErrOut so far.
func (b *BuffersStreams) Strings() (out, errOut string) {
	return b.out.String(), b.errOut.String()
}

// Reset clears both buffers.
func (b *BuffersStreams) Reset() {
	b.out.Reset()
	b.errOut.Reset()
}

// slogWriter turns each Write into one log record.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.l.Log(context.Background(), w.level, string(bytes.TrimRight(p, "\n")))
	return n, nil
}

// Slog returns streams that log Out messages at level info and ErrOut
// messages at level warn.
func Slog(l *slog.Logger, info, warn slog.Level) BasicIOStreams {
	return BasicIOStreams{
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: warn},
	}
}
