package s3

import (
	"io"
	"strings"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "failed-outputs/a.json", want: "failed-outputs/a.json"},
		{name: "simple prefix", prefix: "diag", key: "failed-outputs/a.json", want: "diag/failed-outputs/a.json"},
		{name: "prefix trailing slash", prefix: "diag/", key: "failed-outputs/a.json", want: "diag/failed-outputs/a.json"},
		{name: "prefix and key slashes", prefix: "/diag/", key: "/failed-outputs/a.json", want: "diag/failed-outputs/a.json"},
		{name: "empty key", prefix: "diag", key: "", want: "diag"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := normalizePrefix("  /a/b/ "); got != "a/b" {
		t.Fatalf("normalizePrefix = %q", got)
	}
}

func TestCountingReader(t *testing.T) {
	c := &countingReader{r: strings.NewReader("hello world")}
	if _, err := io.Copy(io.Discard, c); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if c.n != 11 {
		t.Fatalf("expected 11 bytes counted, got %d", c.n)
	}
}
