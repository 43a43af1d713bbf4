package job

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		output string
		kind   Kind
	}{
		{"ERROR: [youtube] abc: Private video. Sign in if you've been granted access", KindForbidden},
		{"ERROR: This video is private", KindForbidden},
		{"ERROR: [youtube] abc: Video unavailable", KindNotFound},
		{"ERROR: video removed by the user", KindNotFound},
		{"ERROR: Unsupported URL: http://example.com", KindBadRequest},
		{"ERROR: 'htp://x' is not a valid URL", KindBadRequest},
		{"ERROR: some opaque tool failure", KindBadRequest},
	}

	for _, tc := range cases {
		got := Classify(errors.New(tc.output))
		if got.Kind != tc.kind {
			t.Errorf("Classify(%q).Kind = %q, want %q", tc.output, got.Kind, tc.kind)
		}
	}
}

func TestClassify_NeverLeaksToolOutput(t *testing.T) {
	raw := "ERROR: internal path /srv/secret/tool.log exploded"
	classified := Classify(errors.New(raw))
	if strings.Contains(classified.Message, "/srv/secret") {
		t.Fatalf("classified message leaks tool output: %q", classified.Message)
	}
	// The raw output stays reachable for logging via the wrapped error.
	if !strings.Contains(classified.Error(), "/srv/secret") {
		t.Fatalf("wrapped error lost the underlying detail: %q", classified.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("boom")
	wrapped := fmt.Errorf("tool: %w", underlying)
	jobErr := NewError(KindInternal, "Server error, try again later.", wrapped)

	if !errors.Is(jobErr, underlying) {
		t.Fatalf("expected errors.Is to reach the underlying error")
	}

	var target *Error
	if !errors.As(error(jobErr), &target) || target.Kind != KindInternal {
		t.Fatalf("errors.As failed to recover *Error")
	}
}
