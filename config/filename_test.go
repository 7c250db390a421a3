package config

import "testing"

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"level-01-welcome.html", "level-01-welcome.html"},
		{"../level.html", "level.html"},
		{"a/b:c.html", "abc.html"},
		{"tab\there.html", "tabhere.html"},
		{" .hidden", "hidden"},
		{"...", "_unnamed_"},
		{"", "_unnamed_"},
	}
	for _, tt := range tests {
		if got := SafeFileName(tt.in); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColorDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if !colorDisabled() {
		t.Error("NO_COLOR set but color is enabled")
	}
}
