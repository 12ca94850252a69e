package spam

import (
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/postguard/postguard/internal/utils/text"
)

// Signal weights, applied in a fixed order so the same inputs always
// produce the same score and reason list.
const (
	weightLowFollowers    = 0.30
	weightFewFollowers    = 0.15
	weightSuspiciousRatio = 0.20
	weightNewAccount      = 0.25
	weightYoungAccount    = 0.10
	weightSpamURL         = 0.30
	weightBotUsername     = 0.20
	weightLowTweets       = 0.15

	// lowTweetKeywordFloor is the keyword sub-score above which a
	// low-activity account picks up the combined signal.
	lowTweetKeywordFloor = 0.2

	usernameRunLength = 5
)

var createdAtLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RubyDate,
	"2006-01-02",
}

// ParseCreatedAt parses an account creation date in any of the
// formats the platform has been seen to return. The second return is
// false when nothing matched.
func ParseCreatedAt(s string) (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Scorer rates reply/author pairs with additive heuristics. It holds
// no state between calls; a single instance is safe to share.
type Scorer struct {
	logger *log.Entry
	now    func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{
		logger: log.WithField("object", "Scorer"),
		now:    time.Now,
	}
}

// ScoreReply scores one reply against its author profile. The total
// accumulates per-signal weights and is capped at 1.0; every signal
// that fired is named in Reasons.
func (s *Scorer) ScoreReply(replyText string, profile Profile) Score {
	score := Score{UserID: profile.ID, Username: profile.Username}

	switch {
	case profile.FollowersCount < MinFollowers:
		s.add(&score, weightLowFollowers, fmt.Sprintf("Low followers: %d", profile.FollowersCount))
	case profile.FollowersCount < LowFollowers:
		s.add(&score, weightFewFollowers, fmt.Sprintf("Few followers: %d", profile.FollowersCount))
	}

	if profile.FollowersCount > 0 && profile.FollowingCount > 0 {
		ratio := float64(profile.FollowersCount) / float64(profile.FollowingCount)
		if ratio < SuspiciousRatio {
			s.add(&score, weightSuspiciousRatio, "Suspicious ratio")
		}
	}

	if createdAt, ok := ParseCreatedAt(profile.CreatedAt); ok {
		ageDays := int(s.now().Sub(createdAt).Hours() / 24)
		switch {
		case ageDays < NewAccountDays:
			s.add(&score, weightNewAccount, fmt.Sprintf("New account: %d days old", ageDays))
		case ageDays < YoungAccountDays:
			s.add(&score, weightYoungAccount, fmt.Sprintf("New account: %d days old", ageDays))
		}
	}

	haystack := strings.ToLower(replyText + " " + profile.Description)

	keywordScore := 0.0
	var matched []string
	for _, kw := range keywordWeights {
		if strings.Contains(haystack, kw.keyword) {
			keywordScore += kw.weight
			matched = append(matched, kw.keyword)
		}
	}
	keywordScore = math.Min(keywordScore, keywordCap)
	if keywordScore > 0 {
		s.add(&score, keywordScore, "Spam keywords: "+strings.Join(matched, ", "))
	}

	for _, pattern := range urlPatterns {
		if pattern.MatchString(replyText) {
			s.add(&score, weightSpamURL, "Spam URL pattern detected")
			break
		}
	}

	if s.botLikeUsername(profile.Username) {
		s.add(&score, weightBotUsername, "Bot-like username")
	}

	if profile.TweetCount < MinTweetCount && keywordScore > lowTweetKeywordFloor {
		s.add(&score, weightLowTweets, fmt.Sprintf("Low tweets (%d) with spam content", profile.TweetCount))
	}

	score.Total = math.Min(score.Total, 1.0)
	score.IsSpam = score.Total >= SpamThreshold

	if score.IsSpam {
		s.logger.WithField("username", profile.Username).
			WithField("score", score.Total).
			WithField("reasons", score.Reasons).
			Info("spam reply detected")
	}
	return score
}

func (s *Scorer) add(score *Score, weight float64, reason string) {
	score.Total += weight
	score.Reasons = append(score.Reasons, reason)
}

func (s *Scorer) botLikeUsername(username string) bool {
	if username == "" {
		return false
	}
	for _, pattern := range usernamePatterns {
		if pattern.MatchString(username) {
			return true
		}
	}
	return text.HasRun(username, usernameRunLength)
}
