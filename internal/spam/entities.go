package spam

// Thresholds for the additive heuristic score. A reply at or above
// SpamThreshold triggers protective action against its author.
const (
	SpamThreshold    = 0.6
	MinFollowers     = 50
	LowFollowers     = 100
	NewAccountDays   = 30
	YoungAccountDays = 90
	SuspiciousRatio  = 0.1
	MinTweetCount    = 50
)

// Profile is the authoring account as the platform reports it.
// CreatedAt stays a raw string: the platform is not consistent about
// the format and an unparseable date must not fail the scoring.
type Profile struct {
	ID             string
	Username       string
	FollowersCount int
	FollowingCount int
	TweetCount     int
	Description    string
	CreatedAt      string
}

// Score is one scoring verdict. Total is bounded to [0, 1] and
// Reasons lists every signal that contributed, in evaluation order.
type Score struct {
	UserID   string
	Username string
	Total    float64
	Reasons  []string
	IsSpam   bool
}
