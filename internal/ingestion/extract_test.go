package ingestion

import (
	"errors"
	"fmt"
	"testing"
)

func Test_ParseFAQArray_PlainJSON(t *testing.T) {
	t.Parallel()

	raw := `[{"question": "Where is the library?", "answer": "Near the main gate."}]`
	pairs, err := ParseFAQArray(raw)
	if err != nil {
		t.Fatalf("ParseFAQArray() failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Question != "Where is the library?" {
		t.Errorf("unexpected question %q", pairs[0].Question)
	}
}

func Test_ParseFAQArray_MarkdownFence(t *testing.T) {
	t.Parallel()

	raw := "```json\n[{\"question\": \"Q1\", \"answer\": \"A1\"}]\n```"
	pairs, err := ParseFAQArray(raw)
	if err != nil {
		t.Fatalf("ParseFAQArray() failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}

func Test_ParseFAQArray_BareFence(t *testing.T) {
	t.Parallel()

	raw := "```\n[]\n```"
	pairs, err := ParseFAQArray(raw)
	if err != nil {
		t.Fatalf("ParseFAQArray() failed: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected empty array, got %d pairs", len(pairs))
	}
}

func Test_ParseFAQArray_MalformedIsTypedError(t *testing.T) {
	t.Parallel()

	cases := []string{
		"The page describes the library hours.",
		`{"question": "not an array"}`,
		"",
		"```json\nnot json\n```",
	}
	for _, raw := range cases {
		if _, err := ParseFAQArray(raw); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParseFAQArray(%q) error = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func Test_ParseFAQArray_DropsEmptyPairs(t *testing.T) {
	t.Parallel()

	raw := `[
		{"question": "Q1", "answer": "A1"},
		{"question": "", "answer": "orphan answer"},
		{"question": "orphan question", "answer": "  "},
		{"question": " Q2 ", "answer": " A2 "}
	]`
	pairs, err := ParseFAQArray(raw)
	if err != nil {
		t.Fatalf("ParseFAQArray() failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[1].Question != "Q2" || pairs[1].Answer != "A2" {
		t.Errorf("expected trimmed fields, got %+v", pairs[1])
	}
}

func Test_IsRetryable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"malformed", fmt.Errorf("wrap: %w", ErrMalformedResponse), true},
		{"http 429", errors.New("request failed: 429 Too Many Requests"), true},
		{"quota", errors.New("googleapi: quota exceeded for project"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"auth failure", errors.New("401 unauthorized"), false},
		{"network", errors.New("dial tcp: connection refused"), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
