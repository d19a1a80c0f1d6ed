package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}
	Info("hidden message")
	Warn("shown message", "faces", 3)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown message") || !strings.Contains(out, "faces=3") {
		t.Errorf("expected warn message with key/value, got %q", out)
	}

	if err := SetLevel("info"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
