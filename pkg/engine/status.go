// pkg/engine/status.go
package engine

import "fmt"

// Status is the outcome state of a level run
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Finished reports whether the run has ended.
func (s Status) Finished() bool {
	return s == StatusWon || s == StatusLost
}
