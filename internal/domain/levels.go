package domain

// Level is the ordinal relationship tier. Tiers are strictly ordered:
// stranger < acquaintance < friend < close_friend < vip.
type Level string

// Relationship tiers, in ascending order of familiarity.
const (
	LevelStranger     Level = "stranger"
	LevelAcquaintance Level = "acquaintance"
	LevelFriend       Level = "friend"
	LevelCloseFriend  Level = "close_friend"
	LevelVIP          Level = "vip"
)

// Levels lists all tiers in ascending order.
var Levels = []Level{
	LevelStranger,
	LevelAcquaintance,
	LevelFriend,
	LevelCloseFriend,
	LevelVIP,
}

// LevelThreshold is the minimum history required before a tier is reachable
// through natural progression.
type LevelThreshold struct {
	// Messages is the minimum (dampening-adjusted) interaction count.
	Messages int
	// Days is the minimum whole days since the first interaction.
	Days int
}

// LevelThresholds maps each tier to its progression requirements. Progression
// walks Levels in ascending order and selects the highest tier whose both
// thresholds are satisfied.
var LevelThresholds = map[Level]LevelThreshold{
	LevelStranger:     {Messages: 0, Days: 0},
	LevelAcquaintance: {Messages: 5, Days: 1},
	LevelFriend:       {Messages: 20, Days: 3},
	LevelCloseFriend:  {Messages: 50, Days: 7},
	LevelVIP:          {Messages: 100, Days: 14},
}

// ParseLevel maps a string to a known Level. The second return value reports
// whether the name was recognized.
func ParseLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelStranger, LevelAcquaintance, LevelFriend, LevelCloseFriend, LevelVIP:
		return Level(s), true
	}
	return "", false
}

// Rank returns the tier's position in the ascending order, or -1 for an
// unknown level.
func (l Level) Rank() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// Next returns the tier one step above l. The top tier returns itself.
func (l Level) Next() Level {
	r := l.Rank()
	if r < 0 || r == len(Levels)-1 {
		return l
	}
	return Levels[r+1]
}
