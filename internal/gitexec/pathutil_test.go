package gitexec

import "testing"

func TestNormalizePathInput(t *testing.T) {
	t.Setenv("HOME", "/home/ops")

	tests := []struct {
		in   string
		want string
	}{
		{"/srv/site", "/srv/site"},
		{"  /srv/site  ", "/srv/site"},
		{`"/srv/my site"`, "/srv/my site"},
		{"'/srv/site'", "/srv/site"},
		{"~", "/home/ops"},
		{"~/work", "/home/ops/work"},
		{"\"~/work\"", "/home/ops/work"},
		{"~ops/work", "~ops/work"}, // only bare ~ expands
		{"", ""},
		{`"`, `"`}, // lone quote is not a wrapped path
	}
	for _, tt := range tests {
		if got := NormalizePathInput(tt.in); got != tt.want {
			t.Errorf("NormalizePathInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultDetectRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := DefaultDetectRoot(); got != home {
		t.Errorf("DefaultDetectRoot() = %q, want %q", got, home)
	}
}
