package gitexec

import (
	"os"
	"strings"
)

// NormalizePathInput cleans operator-typed paths: wrapping quotes are
// stripped (drag-and-drop on some platforms quotes the path) and a leading
// tilde expands to the home directory.
func NormalizePathInput(s string) string {
	return expandTilde(stripWrappingQuotes(s))
}

func stripWrappingQuotes(s string) string {
	t := strings.TrimSpace(s)
	if len(t) >= 2 {
		first, last := t[0], t[len(t)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return strings.TrimSpace(t[1 : len(t)-1])
		}
	}
	return t
}

func expandTilde(s string) string {
	t := strings.TrimSpace(s)
	if t != "~" && !strings.HasPrefix(t, "~/") && !strings.HasPrefix(t, `~\`) {
		return t
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return t
	}
	if t == "~" {
		return home
	}
	return home + t[1:] // keep the separator the operator typed
}

// DefaultDetectRoot picks a sensible root for local repo discovery: the home
// directory when it exists, else the current working directory.
func DefaultDetectRoot() string {
	if home, err := os.UserHomeDir(); err == nil {
		if info, statErr := os.Stat(home); statErr == nil && info.IsDir() {
			return home
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}
