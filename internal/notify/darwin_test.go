//go:build darwin

package notify

import "testing"

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello", "Hello"},
		{`Hello "World"`, `Hello \"World\"`},
		{`Path\to\file`, `Path\\to\\file`},
		{`Mix "quote" and \slash`, `Mix \"quote\" and \\slash`},
	}
	for _, tc := range tests {
		if got := escapeAppleScript(tc.input); got != tc.expected {
			t.Errorf("escapeAppleScript(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestAppleScript(t *testing.T) {
	got := appleScript(Notification{Title: `Say "hi"`, Body: "Time for: hi"})
	want := `display notification "Time for: hi" with title "Say \"hi\"" subtitle "luna"`
	if got != want {
		t.Errorf("appleScript() = %q, want %q", got, want)
	}
}
