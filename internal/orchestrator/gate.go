package orchestrator

import (
	"errors"
	"strings"
)

// ErrEmptyCommitMessage is returned when a commit message reduces to nothing
// after trimming.
var ErrEmptyCommitMessage = errors.New("commit message is empty")

// NormalizeCommitMessage trims a commit message collected from the operator
// and rejects blank input. Both the commit prompt and RunAction call this,
// so a push never reaches the boundary with a message git would refuse.
func NormalizeCommitMessage(raw string) (string, error) {
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return "", ErrEmptyCommitMessage
	}
	return msg, nil
}
