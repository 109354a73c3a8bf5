// pkg/engine/result.go
package engine

import "time"

// Result summarizes a run for progress tracking
type Result struct {
	LevelID             int
	Status              Status
	Score               int
	Stars               int
	BirdsUsed           int
	PigsDestroyed       int
	StructuresDestroyed int
	MaxCombo            int
	Elapsed             time.Duration
}

// Won reports whether the run cleared the level.
func (r Result) Won() bool {
	return r.Status == StatusWon
}

// Result returns the run summary so far.
func (s *Simulation) Result() Result {
	return Result{
		LevelID:             s.def.ID,
		Status:              s.status,
		Score:               s.score,
		Stars:               s.stars,
		BirdsUsed:           s.def.BirdCount() - len(s.queue),
		PigsDestroyed:       s.pigsDestroyed,
		StructuresDestroyed: s.structuresDestroyed,
		MaxCombo:            s.maxCombo,
		Elapsed:             s.Elapsed(),
	}
}
