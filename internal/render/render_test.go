package render

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// clearColorEnv removes the color environment variables for the duration
// of a test, restoring any prior values afterwards.
func clearColorEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FORCE_COLOR", "NO_COLOR"} {
		if val, ok := os.LookupEnv(key); ok {
			key, val := key, val
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

// TestColorEnabledExplicitModes verifies the flag always wins.
func TestColorEnabledExplicitModes(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	if !ColorEnabled(ColorAlways, &buf) {
		t.Error("ColorEnabled(always) = false, want true despite NO_COLOR")
	}
	if ColorEnabled(ColorNever, &buf) {
		t.Error("ColorEnabled(never) = true, want false")
	}
}

// TestColorEnabledEnvironment verifies FORCE_COLOR and NO_COLOR precedence.
func TestColorEnabledEnvironment(t *testing.T) {
	var buf bytes.Buffer

	t.Run("force color wins over no color", func(t *testing.T) {
		clearColorEnv(t)
		t.Setenv("FORCE_COLOR", "1")
		t.Setenv("NO_COLOR", "1")
		if !ColorEnabled(ColorAuto, &buf) {
			t.Error("ColorEnabled(auto) = false, want FORCE_COLOR to win")
		}
	})

	t.Run("force color zero disables", func(t *testing.T) {
		clearColorEnv(t)
		t.Setenv("FORCE_COLOR", "0")
		if ColorEnabled(ColorAuto, &buf) {
			t.Error("ColorEnabled(auto) = true, want FORCE_COLOR=0 to disable")
		}
	})

	t.Run("no color disables", func(t *testing.T) {
		clearColorEnv(t)
		t.Setenv("NO_COLOR", "")
		if ColorEnabled(ColorAuto, &buf) {
			t.Error("ColorEnabled(auto) = true, want NO_COLOR presence to disable")
		}
	})

	t.Run("non-terminal writer disables", func(t *testing.T) {
		clearColorEnv(t)
		if ColorEnabled(ColorAuto, &buf) {
			t.Error("ColorEnabled(auto) = true for non-terminal writer, want false")
		}
	})
}

// TestXML verifies plain passthrough and highlighted output.
func TestXML(t *testing.T) {
	src := `<root><child attr="v">text</child></root>` + "\n"

	var plain bytes.Buffer
	if err := XML(&plain, src, false); err != nil {
		t.Fatalf("XML() error = %v", err)
	}
	if plain.String() != src {
		t.Errorf("XML(color=false) = %q, want unchanged source", plain.String())
	}

	var colored bytes.Buffer
	if err := XML(&colored, src, true); err != nil {
		t.Fatalf("XML(color=true) error = %v", err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("XML(color=true) produced no ANSI escapes")
	}
}

// TestTable verifies header and row rendering.
func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"Path", "Size"}, [][]string{
		{"mimetype", "20 B"},
		{"OEBPS/content.opf", "1.2 KiB"},
	})

	out := buf.String()
	if !strings.Contains(out, "PATH") {
		t.Errorf("Table() output missing header:\n%s", out)
	}
	if !strings.Contains(out, "mimetype") || !strings.Contains(out, "OEBPS/content.opf") {
		t.Errorf("Table() output missing rows:\n%s", out)
	}
}

// TestSize verifies binary unit formatting.
func TestSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{20, "20 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
	}

	for _, tt := range tests {
		if got := Size(tt.in); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestTimestamp verifies listing time formatting.
func TestTimestamp(t *testing.T) {
	if got := Timestamp(time.Time{}); got != "" {
		t.Errorf("Timestamp(zero) = %q, want empty", got)
	}

	ts := time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)
	if got := Timestamp(ts); got != "2024-05-14 10:30:00" {
		t.Errorf("Timestamp() = %q, want 2024-05-14 10:30:00", got)
	}
}
