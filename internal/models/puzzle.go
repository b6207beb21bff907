package models

// Puzzle is one question unit: an image the player is shown and the numeric
// answer it encodes. Immutable once fetched.
type Puzzle struct {
	ImageRef string `json:"image_ref"`
	Solution int    `json:"solution"`
}
