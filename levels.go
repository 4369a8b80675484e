package seriallog

import (
	"fmt"
	"strconv"
)

const (
	// MaxLevels is the maximum number of entries in a level table.
	MaxLevels = 10
	// MaxLevelNameLen is the maximum length in bytes of a level name.
	MaxLevelNameLen = 10
	// MaxPrefixLen is the maximum length in bytes of the logger prefix label.
	MaxPrefixLen = 10
)

// Values of the default level table.
const (
	LevelError uint8 = iota
	LevelInfo
	LevelDebug
)

// LevelDefinition pairs a numeric level value with its short name.
type LevelDefinition struct {
	Value uint8
	Name  string
}

func (l LevelDefinition) String() string {
	return l.Name + "=" + strconv.Itoa(int(l.Value))
}

// DefaultLevels is the level table used when none is configured.
var DefaultLevels = []LevelDefinition{
	{Value: LevelError, Name: "ERROR"},
	{Value: LevelInfo, Name: "INFO"},
	{Value: LevelDebug, Name: "DEBUG"},
}

// levelTable is an owned copy of a caller-supplied table.
type levelTable struct {
	entries [MaxLevels]LevelDefinition
	count   int
}

func newLevelTable(levels []LevelDefinition) (levelTable, error) {
	var t levelTable
	if len(levels) == 0 {
		return t, ErrEmptyLevelTable
	}
	if len(levels) > MaxLevels {
		return t, fmt.Errorf("%w: got %d, max %d", ErrTooManyLevels, len(levels), MaxLevels)
	}
	for i, l := range levels {
		if len(l.Name) > MaxLevelNameLen {
			return t, fmt.Errorf("%w: %q at index %d", ErrLevelNameTooLong, l.Name, i)
		}
		t.entries[i] = l
	}
	t.count = len(levels)
	return t, nil
}

// indexOf returns the index of the first entry with the given value, or -1.
func (t *levelTable) indexOf(value uint8) int {
	for i := 0; i < t.count; i++ {
		if t.entries[i].Value == value {
			return i
		}
	}
	return -1
}

// lookupBounded scans indices 0..=limit only, so an entry stored past the
// numeric value of the current threshold is never matched.
func (t *levelTable) lookupBounded(value, limit uint8) int {
	for i := 0; i <= int(limit) && i < t.count; i++ {
		if t.entries[i].Value == value {
			return i
		}
	}
	return -1
}

func (t *levelTable) slice() []LevelDefinition {
	out := make([]LevelDefinition, t.count)
	copy(out, t.entries[:t.count])
	return out
}
