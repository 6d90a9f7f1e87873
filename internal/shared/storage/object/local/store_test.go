package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "failed-outputs/2026/01/02/abc.json", "application/json", strings.NewReader(`{"raw":"x"}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != int64(len(`{"raw":"x"}`)) {
		t.Fatalf("unexpected size %d", n)
	}

	rc, err := store.Open(ctx, "failed-outputs/2026/01/02/abc.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"raw":"x"}` {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../escape.json", "/abs/path.json", ""} {
		if _, err := store.Put(ctx, key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected open error for key %q", key)
		}
	}
}

func TestPutHonorsCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, "a.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected canceled context error")
	}
}
