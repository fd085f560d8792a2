package models

type BlockCategory string

const (
	BlockWork     BlockCategory = "Work"
	BlockPersonal BlockCategory = "Personal"
	BlockStudy    BlockCategory = "Study"
	BlockFitness  BlockCategory = "Fitness"
)

// Valid reports whether bc is a known block category.
func (bc BlockCategory) Valid() bool {
	switch bc {
	case BlockWork, BlockPersonal, BlockStudy, BlockFitness:
		return true
	}
	return false
}

// TimeBlock is a planner entry. Blocks on the same day are assumed not to
// overlap in [StartHour, StartHour+Duration), but the store does not enforce
// it.
type TimeBlock struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Title     string        `json:"title"`
	Day       string        `json:"day"` // weekday name, e.g. "Monday"
	StartHour int           `json:"startHour"`
	Duration  int           `json:"duration"` // hours, >= 1
	Category  BlockCategory `json:"category"`
}

func (b TimeBlock) RecordID() string { return b.ID }

// TimeBlockPatch holds the fields of a partial update.
type TimeBlockPatch struct {
	Title     *string        `json:"title,omitempty"`
	Day       *string        `json:"day,omitempty"`
	StartHour *int           `json:"startHour,omitempty"`
	Duration  *int           `json:"duration,omitempty"`
	Category  *BlockCategory `json:"category,omitempty"`
}

// Apply merges the patch into b and returns the result.
func (p TimeBlockPatch) Apply(b TimeBlock) TimeBlock {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Day != nil {
		b.Day = *p.Day
	}
	if p.StartHour != nil {
		b.StartHour = *p.StartHour
	}
	if p.Duration != nil {
		b.Duration = *p.Duration
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	return b
}
