package llm

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single completion call. The Detail
// field carries the upstream error text for failed calls; it is only ever
// written to the observer's sink, never returned to callers.
type CallEvent struct {
	Task      TaskType
	Provider  Provider
	Model     string
	LatencyMs int64
	Success   bool
	Detail    string
}

// Observer receives events about completion calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes completion call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err"
	}
	fmt.Fprintf(o.w, "[%s] llm_call task=%s provider=%s model=%s latency_ms=%d status=%s",
		ts, event.Task, event.Provider, event.Model, event.LatencyMs, status)
	if event.Detail != "" {
		fmt.Fprintf(o.w, " detail=%q", event.Detail)
	}
	fmt.Fprintln(o.w)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
