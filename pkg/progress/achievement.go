// pkg/progress/achievement.go
package progress

import (
	"slices"
	"time"
)

// Achievement is a one-off award unlocked by play statistics
type Achievement struct {
	ID          string
	Name        string
	Description string
	earned      func(p *Progress) bool
}

// Achievements lists every award in unlock-check order.
var Achievements = []Achievement{
	{"first_blood", "First Blood", "Defeat your first pig",
		func(p *Progress) bool { return p.Stats.PigsDefeated >= 1 }},
	{"perfectionist", "Perfectionist", "Get 3 stars on any level",
		func(p *Progress) bool { return p.threeStarLevels() >= 1 }},
	{"sharpshooter", "Sharpshooter", "Complete a level using only 1 bird",
		func(p *Progress) bool { return p.Stats.OneBirdVictories >= 1 }},
	{"demolition_expert", "Demolition Expert", "Destroy 100 structures",
		func(p *Progress) bool { return p.Stats.StructuresDestroyed >= 100 }},
	{"pig_slayer", "Pig Slayer", "Defeat 50 pigs",
		func(p *Progress) bool { return p.Stats.PigsDefeated >= 50 }},
	{"combo_master", "Combo Master", "Get a 5x combo",
		func(p *Progress) bool { return p.Stats.MaxCombo >= 5 }},
	{"all_stars", "All Stars", "Collect all stars in the game",
		func(p *Progress) bool { return p.TotalStars >= 24 }},
	{"speed_demon", "Speed Demon", "Complete a level in under 30 seconds",
		func(p *Progress) bool { return p.Stats.FastestClear > 0 && p.Stats.FastestClear <= 30*time.Second }},
}

// FindAchievement looks up an award by ID.
func FindAchievement(id string) (Achievement, bool) {
	i := slices.IndexFunc(Achievements, func(a Achievement) bool { return a.ID == id })
	if i < 0 {
		return Achievement{}, false
	}
	return Achievements[i], true
}

// HasAchievement reports whether id has been unlocked.
func (p *Progress) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

// Unlock marks id as earned and reports whether it was new.
func (p *Progress) Unlock(id string) bool {
	if p.HasAchievement(id) {
		return false
	}
	p.Achievements = append(p.Achievements, id)
	return true
}

func (p *Progress) checkAchievements() []Achievement {
	var unlocked []Achievement
	for _, a := range Achievements {
		if a.earned(p) && p.Unlock(a.ID) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
