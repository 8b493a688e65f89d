package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Decoding failures. DecodeError wraps one of these or a JSON syntax error.
var (
	ErrUnknownType  = errors.New("unknown event type")
	ErrUnknownKind  = errors.New("unknown event kind")
	ErrMissingField = errors.New("missing required field")
	ErrLineTooLong  = errors.New("line exceeds maximum length")
)

const (
	initialLineSize  = 64 * 1024
	maxLineSize      = 16 * 1024 * 1024
	maxQuotedLineLen = 120
)

// DecodeError reports the line of the stream that could not be decoded.
type DecodeError struct {
	Line int    // 1-based line number
	Text string // offending line, possibly truncated
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wireEvent mirrors the JSON shape of both variants. Pointers distinguish
// absent fields from zero values.
type wireEvent struct {
	Type        string
	Event       Kind
	Name        *string
	Stdout      *string
	TestCount   *uint64
	Passed      *uint64
	Failed      *uint64
	AllowedFail *uint64
	Ignored     *uint64
	Measured    *uint64
	FilteredOut *uint64
}

// fill copies the protocol keys of obj into w. Keys match exactly; differently
// cased keys are treated as unknown and ignored.
func (w *wireEvent) fill(obj map[string]json.RawMessage) error {
	fields := []struct {
		key string
		dst any
	}{
		{"type", &w.Type},
		{"event", &w.Event},
		{"name", &w.Name},
		{"stdout", &w.Stdout},
		{"test_count", &w.TestCount},
		{"passed", &w.Passed},
		{"failed", &w.Failed},
		{"allowed_fail", &w.AllowedFail},
		{"ignored", &w.Ignored},
		{"measured", &w.Measured},
		{"filtered_out", &w.FilteredOut},
	}
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
	}
	return nil
}

// ParseEvent decodes a single JSON object into an Event.
func ParseEvent(data []byte) (Event, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	var w wireEvent
	if err := w.fill(obj); err != nil {
		return nil, err
	}
	if w.Type == "" {
		return nil, fmt.Errorf("%w %q", ErrMissingField, "type")
	}
	if w.Event == "" {
		return nil, fmt.Errorf("%w %q", ErrMissingField, "event")
	}
	if !w.Event.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, w.Event)
	}

	switch w.Type {
	case "suite":
		return w.suite()
	case "test":
		return w.test()
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, w.Type)
	}
}

func (w *wireEvent) suite() (*Suite, error) {
	s := &Suite{Kind: w.Event}
	switch w.Event {
	case KindStarted:
		if w.TestCount == nil {
			return nil, missing(w, "test_count")
		}
		s.TestCount = *w.TestCount
	case KindOk, KindFailed:
		required := []struct {
			name string
			src  *uint64
			dst  *uint64
		}{
			{"passed", w.Passed, &s.Counts.Passed},
			{"failed", w.Failed, &s.Counts.Failed},
			{"ignored", w.Ignored, &s.Counts.Ignored},
			{"measured", w.Measured, &s.Counts.Measured},
			{"filtered_out", w.FilteredOut, &s.Counts.FilteredOut},
		}
		for _, f := range required {
			if f.src == nil {
				return nil, missing(w, f.name)
			}
			*f.dst = *f.src
		}
		// Newer harness versions no longer emit allowed_fail.
		if w.AllowedFail != nil {
			s.Counts.AllowedFail = *w.AllowedFail
		}
	}
	return s, nil
}

func (w *wireEvent) test() (*Test, error) {
	if w.Name == nil {
		return nil, missing(w, "name")
	}
	t := &Test{Kind: w.Event, Name: *w.Name}
	if w.Stdout != nil {
		t.Stdout = *w.Stdout
	} else if w.Event == KindFailed {
		return nil, missing(w, "stdout")
	}
	return t, nil
}

func missing(w *wireEvent, field string) error {
	return fmt.Errorf("%w %q for %s %s event", ErrMissingField, field, w.Type, w.Event)
}

// Decode reads the whole stream from r and returns its events in arrival order.
// Blank lines are skipped. The first line that fails to decode aborts the stream.
func Decode(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineSize), maxLineSize)

	var result []Event
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		ev, err := ParseEvent(line)
		if err != nil {
			return nil, &DecodeError{Line: lineNo, Text: quote(line), Err: err}
		}
		result = append(result, ev)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &DecodeError{Line: lineNo + 1, Err: ErrLineTooLong}
		}
		return nil, err
	}
	return result, nil
}

// Parse decodes captured harness output already held in memory.
func Parse(text string) ([]Event, error) {
	return Decode(strings.NewReader(text))
}

// quote shortens line for error messages without splitting a UTF-8 sequence.
func quote(line []byte) string {
	if len(line) <= maxQuotedLineLen {
		return string(line)
	}
	cut := maxQuotedLineLen - 3
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return string(line[:cut]) + "..."
}
