package models

// Achievement ids. Each id may appear at most once in a profile's set.
const (
	AchievementFirstWin     = "first_win"
	AchievementPerfectGame  = "perfect_game"
	AchievementVeteran      = "veteran"
	AchievementPuzzleMaster = "puzzle_master"
)

// AchievementDef describes a badge for presentation purposes.
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// AchievementCatalog lists every badge the game can award.
var AchievementCatalog = []AchievementDef{
	{ID: AchievementFirstWin, Name: "First Win", Description: "Win your first game", Icon: "🏆"},
	{ID: AchievementPerfectGame, Name: "Perfect Game", Description: "Win a game with 100% accuracy", Icon: "💯"},
	{ID: AchievementVeteran, Name: "Veteran", Description: "Play 10 games", Icon: "🎖️"},
	{ID: AchievementPuzzleMaster, Name: "Puzzle Master", Description: "Answer 50 puzzles", Icon: "🧩"},
}

// AchievementByID looks up a badge definition. The bool is false for unknown ids.
func AchievementByID(id string) (AchievementDef, bool) {
	for _, def := range AchievementCatalog {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDef{}, false
}
