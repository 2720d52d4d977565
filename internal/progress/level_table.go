package progress

import (
	"errors"
	"fmt"
	"math"
)

// Level table validation errors.
var (
	ErrEmptyLevelTable   = errors.New("level table cannot be empty")
	ErrLevelTableGap     = errors.New("level table must cover XP without gaps or overlaps")
	ErrLevelTableNotOpen = errors.New("level table's last band must be open-ended")
)

// LevelBand is one row of the level table: the half-open XP range
// [MinXP, MaxXP) and the title shown for it. The final band uses
// math.MaxInt as MaxXP so every XP value has exactly one level.
type LevelBand struct {
	MinXP int
	MaxXP int
	Title string
}

// LevelTable is an ordered, gap-free set of bands covering all XP from 0
// upwards. Levels are band indices, so boundaries stay stable across
// releases: changing progression means editing the table, never a formula.
type LevelTable []LevelBand

// DefaultLevelTable returns the standard CILS progression bands.
func DefaultLevelTable() LevelTable {
	return LevelTable{
		{MinXP: 0, MaxXP: 100, Title: "Principiante"},
		{MinXP: 100, MaxXP: 250, Title: "Apprendista"},
		{MinXP: 250, MaxXP: 500, Title: "Esploratore"},
		{MinXP: 500, MaxXP: 1000, Title: "Intermedio"},
		{MinXP: 1000, MaxXP: 2000, Title: "Avanzato"},
		{MinXP: 2000, MaxXP: 4000, Title: "Esperto"},
		{MinXP: 4000, MaxXP: math.MaxInt, Title: "Maestro"},
	}
}

// Validate checks that the table starts at 0, has no gaps or overlaps,
// and ends open-ended.
func (t LevelTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyLevelTable
	}
	if t[0].MinXP != 0 {
		return fmt.Errorf("%w: first band starts at %d", ErrLevelTableGap, t[0].MinXP)
	}
	for i, band := range t {
		if band.MaxXP <= band.MinXP {
			return fmt.Errorf("%w: band %d is empty", ErrLevelTableGap, i)
		}
		if i > 0 && band.MinXP != t[i-1].MaxXP {
			return fmt.Errorf("%w: band %d starts at %d, previous ends at %d",
				ErrLevelTableGap, i, band.MinXP, t[i-1].MaxXP)
		}
	}
	if t[len(t)-1].MaxXP != math.MaxInt {
		return ErrLevelTableNotOpen
	}
	return nil
}

// LevelFor returns the index of the band containing xp. Negative XP can
// never be stored, but is coerced to band 0 defensively.
func (t LevelTable) LevelFor(xp int) int {
	if xp < 0 {
		return 0
	}
	for i := len(t) - 1; i >= 0; i-- {
		if xp >= t[i].MinXP {
			return i
		}
	}
	return 0
}

// TitleFor returns the title of the band containing xp.
func (t LevelTable) TitleFor(xp int) string {
	return t[t.LevelFor(xp)].Title
}
