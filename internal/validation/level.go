package validation

// Level ranks check outcomes. Higher values win when a single reason
// has to be reported for the whole validation.
type Level int

const (
	LevelPass Level = iota
	LevelWarning
	LevelBlock
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelPass:
		return "PASS"
	case LevelWarning:
		return "WARNING"
	case LevelBlock:
		return "BLOCK"
	case LevelCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}
