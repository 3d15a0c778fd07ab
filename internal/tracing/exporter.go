package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var errExporterClosed = errors.New("file exporter is shut down")

// SpanRecord is one line of the trace file.
type SpanRecord struct {
	TraceID    string         `json:"trace_id"`
	SpanID     string         `json:"span_id"`
	Name       string         `json:"name"`
	StartTime  string         `json:"start_time"`
	DurationUs int64          `json:"duration_us"`
	Status     string         `json:"status"`
	StatusMsg  string         `json:"status_message,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// FileExporter appends spans to a JSONL file so classified gestures can be
// inspected with jq after a session.
type FileExporter struct {
	mu   sync.Mutex
	f    *os.File
	enc  *json.Encoder
	path string
}

var _ sdktrace.SpanExporter = (*FileExporter)(nil)

// NewFileExporter opens path for appending, creating parent directories.
func NewFileExporter(path string) (*FileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{f: f, enc: json.NewEncoder(f), path: path}, nil
}

// Path returns the file the exporter writes to.
func (e *FileExporter) Path() string {
	return e.path
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return errExporterClosed
	}
	for _, s := range spans {
		if err := e.enc.Encode(newSpanRecord(s)); err != nil {
			return fmt.Errorf("encode span %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. Later calls are no-ops.
func (e *FileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return nil
	}
	err := e.f.Close()
	e.f, e.enc = nil, nil
	return err
}

func newSpanRecord(s sdktrace.ReadOnlySpan) SpanRecord {
	sc := s.SpanContext()
	rec := SpanRecord{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		Name:       s.Name(),
		StartTime:  s.StartTime().Format(time.RFC3339Nano),
		DurationUs: s.EndTime().Sub(s.StartTime()).Microseconds(),
		Status:     statusName(s.Status().Code),
		StatusMsg:  s.Status().Description,
	}
	if attrs := s.Attributes(); len(attrs) > 0 {
		rec.Attributes = make(map[string]any, len(attrs))
		for _, kv := range attrs {
			rec.Attributes[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return rec
}

func statusName(c codes.Code) string {
	switch c {
	case codes.Ok:
		return "OK"
	case codes.Error:
		return "ERROR"
	default:
		return "UNSET"
	}
}
