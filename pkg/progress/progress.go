// Package progress persists level unlocks, best scores and achievements.
package progress

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/opd-ai/go-slingshot/pkg/engine"
)

// LevelRecord is the saved state of one level
type LevelRecord struct {
	Unlocked  bool `json:"unlocked"`
	Stars     int  `json:"stars"`
	HighScore int  `json:"highScore"`
	Completed bool `json:"completed"`
}

// Stats accumulates play statistics across runs
type Stats struct {
	PigsDefeated        int           `json:"pigsDefeated"`
	StructuresDestroyed int           `json:"structuresDestroyed"`
	OneBirdVictories    int           `json:"oneBirdVictories"`
	MaxCombo            int           `json:"maxCombo"`
	FastestClear        time.Duration `json:"fastestClear,omitempty"`
}

// Progress is the save file
type Progress struct {
	Levels       map[int]LevelRecord `json:"levels"`
	TotalStars   int                 `json:"totalStars"`
	Stats        Stats               `json:"stats"`
	Achievements []string            `json:"achievements"`
	LastPlayed   time.Time           `json:"lastPlayed"`
}

// New returns fresh progress with only the first level unlocked.
func New() *Progress {
	return &Progress{
		Levels: map[int]LevelRecord{
			1: {Unlocked: true},
		},
		Achievements: []string{},
	}
}

// Load reads progress from path. A missing file yields fresh progress.
func Load(path string) (*Progress, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (*Progress, error) {
	p := New()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	if p.Levels == nil {
		p.Levels = make(map[int]LevelRecord)
	}
	rec := p.Levels[1]
	rec.Unlocked = true
	p.Levels[1] = rec
	p.TotalStars = p.countStars()
	return p, nil
}

// Save writes progress to path as indented JSON.
func (p *Progress) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}

	return nil
}

// Level returns the record for id. Unknown levels are locked, except level 1.
func (p *Progress) Level(id int) LevelRecord {
	rec, ok := p.Levels[id]
	if !ok {
		return LevelRecord{Unlocked: id == 1}
	}
	return rec
}

// Unlocked reports whether level id may be played.
func (p *Progress) Unlocked(id int) bool {
	return id == 1 || p.Level(id).Unlocked
}

// UnlockThrough unlocks every level from 1 to id without touching scores.
func (p *Progress) UnlockThrough(id int) {
	for i := 1; i <= id; i++ {
		rec := p.Levels[i]
		rec.Unlocked = true
		p.Levels[i] = rec
	}
}

// Record books a level clear worth stars and score. It keeps the best stars
// and score seen for the level and unlocks the following level unless id is
// lastLevelID.
func (p *Progress) Record(id, stars, score, lastLevelID int) {
	rec, ok := p.Levels[id]
	if !ok {
		rec = LevelRecord{Unlocked: true, Stars: stars, HighScore: score, Completed: stars > 0}
	} else {
		rec.Unlocked = true
		rec.Stars = max(rec.Stars, stars)
		rec.HighScore = max(rec.HighScore, score)
		rec.Completed = true
	}
	p.Levels[id] = rec

	if id < lastLevelID {
		next := p.Levels[id+1]
		next.Unlocked = true
		p.Levels[id+1] = next
	}

	p.TotalStars = p.countStars()
	p.LastPlayed = time.Now()
}

// RecordRun folds a finished run into the statistics and, for wins, the
// level record. It returns the achievements unlocked by this run.
func (p *Progress) RecordRun(result engine.Result, lastLevelID int) []Achievement {
	p.Stats.PigsDefeated += result.PigsDestroyed
	p.Stats.StructuresDestroyed += result.StructuresDestroyed
	p.Stats.MaxCombo = max(p.Stats.MaxCombo, result.MaxCombo)

	if result.Won() {
		if result.BirdsUsed == 1 {
			p.Stats.OneBirdVictories++
		}
		if p.Stats.FastestClear == 0 || result.Elapsed < p.Stats.FastestClear {
			p.Stats.FastestClear = result.Elapsed
		}
		p.Record(result.LevelID, result.Stars, result.Score, lastLevelID)
	} else {
		p.LastPlayed = time.Now()
	}

	return p.checkAchievements()
}

func (p *Progress) countStars() int {
	total := 0
	for _, rec := range p.Levels {
		total += rec.Stars
	}
	return total
}

func (p *Progress) threeStarLevels() int {
	n := 0
	for _, rec := range p.Levels {
		if rec.Stars >= 3 {
			n++
		}
	}
	return n
}

// Reset discards all progress.
func (p *Progress) Reset() {
	*p = *New()
}

// Export encodes progress as base64 JSON for sharing between machines.
func (p *Progress) Export() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal progress: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Import decodes progress produced by Export.
func Import(encoded string) (*Progress, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return decode(data)
}
