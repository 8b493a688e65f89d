package events

import (
	"errors"
	"testing"
)

// FuzzParse tests the stream decoder with arbitrary input.
// Run: go test -fuzz=FuzzParse -fuzztime=30s ./internal/events
func FuzzParse(f *testing.F) {
	seeds := []string{
		singleRun,
		`{"type":"test","name":"t1","event":"failed","stdout":"boom"}`,
		`{"type":"suite","event":"failed","passed":1,"failed":1,"ignored":0,"measured":0,"filtered_out":0}`,
		"",
		"\n\n",
		"{}",
		"null",
		`{"type":"suite"}`,
		`{"type":"test","event":"failed","name":"t"}`,
		`{"type":"suite","event":"started","test_count":18446744073709551615}`,
		`{"type":"suite","event":"started","test_count":18446744073709551616}`,
		`{"type":"test","event":"ok","name":"\u0000"}`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		evs, err := Parse(input)
		if err != nil {
			if evs != nil {
				t.Errorf("Parse returned %d events alongside error %v", len(evs), err)
			}
			var decodeErr *DecodeError
			if errors.As(err, &decodeErr) && decodeErr.Line < 1 {
				t.Errorf("DecodeError.Line = %d, want >= 1", decodeErr.Line)
			}
			return
		}

		for i, ev := range evs {
			if !ev.EventKind().Valid() {
				t.Errorf("event %d has invalid kind %q", i, ev.EventKind())
			}
			switch ev.(type) {
			case *Test, *Suite:
			default:
				t.Errorf("event %d: unexpected type %T", i, ev)
			}
		}
	})
}
