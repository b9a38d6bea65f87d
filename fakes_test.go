package lambdawrap

import (
	"context"
	"strings"
	"time"
)

// logRecord captures one emitted log entry along with a snapshot of
// the logger fields at emit time.
type logRecord struct {
	level  string
	event  interface{}
	fields map[string]interface{}
}

type recordSink struct {
	records []logRecord
	levels  []string
}

func (s *recordSink) byLevel(level string) []logRecord {
	out := []logRecord{}
	for _, r := range s.records {
		if r.level == level {
			out = append(out, r)
		}
	}
	return out
}

// recordingLogger implements the Logger contract and records every
// entry into a shared sink so copies remain observable.
type recordingLogger struct {
	sink   *recordSink
	fields map[string]interface{}
}

func newRecordingLogger(sink *recordSink) *recordingLogger {
	return &recordingLogger{sink: sink, fields: map[string]interface{}{}}
}

func (l *recordingLogger) log(level string, event interface{}) {
	snapshot := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		snapshot[k] = v
	}
	l.sink.records = append(l.sink.records, logRecord{level: level, event: event, fields: snapshot})
}

func (l *recordingLogger) Debug(event interface{}) { l.log("debug", event) }
func (l *recordingLogger) Info(event interface{})  { l.log("info", event) }
func (l *recordingLogger) Warn(event interface{})  { l.log("warn", event) }
func (l *recordingLogger) Error(event interface{}) { l.log("error", event) }
func (l *recordingLogger) SetField(name string, value interface{}) {
	l.fields[name] = value
}
func (l *recordingLogger) Copy() Logger {
	cp := newRecordingLogger(l.sink)
	for k, v := range l.fields {
		cp.fields[k] = v
	}
	return cp
}

type timingRecord struct {
	stat     string
	duration time.Duration
}

// recordingStat implements the Stat contract and records timings.
type recordingStat struct {
	timings []timingRecord
}

func (*recordingStat) Gauge(stat string, value float64, tags ...string)     {}
func (*recordingStat) Count(stat string, count float64, tags ...string)     {}
func (*recordingStat) Histogram(stat string, value float64, tags ...string) {}
func (s *recordingStat) Timing(stat string, value time.Duration, tags ...string) {
	s.timings = append(s.timings, timingRecord{stat: stat, duration: value})
}
func (*recordingStat) AddTags(tags ...string) {}
func (*recordingStat) GetTags() []string {
	return []string{}
}

// memorySource is an in-memory settings source keyed by the dotted
// join of the lookup path.
type memorySource struct {
	values map[string]interface{}
}

func (s *memorySource) Get(ctx context.Context, path ...string) (interface{}, bool) {
	v, ok := s.values[strings.Join(path, ".")]
	return v, ok
}
