package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/postguard/postguard/internal/db"
	"github.com/postguard/postguard/internal/observability"
	"github.com/postguard/postguard/internal/spam"
)

const (
	DefaultPostBatchSize = 5
	DefaultReplyPageSize = 20

	// Heuristic totals in [llmReviewFloor, spam.SpamThreshold) go to
	// the LLM arbiter when one is configured.
	llmReviewFloor = 0.4
)

type ledgerStore interface {
	RecordScan(ctx context.Context, replyID, authorID string, isSpam bool) error
	WasScanned(ctx context.Context, replyID string) (bool, error)
	RecordBlock(ctx context.Context, block *db.BlockedUser) error
	IsUserBlocked(ctx context.Context, userID string) (bool, error)
	GetBlockedUser(ctx context.Context, userID string) (*db.BlockedUser, error)
	RecordTrackedPost(ctx context.Context, postID string) error
	PostsDueForScan(ctx context.Context, limit int) ([]string, error)
	MarkPostScanned(ctx context.Context, postID string) error
	Stats(ctx context.Context) (*db.Stats, error)
}

// spamArbiter renders a second opinion on borderline replies. A nil
// verdict means the arbiter abstained.
type spamArbiter interface {
	Detect(ctx context.Context, message string) (*bool, error)
}

// BlockedAccount is one account acted on during a scan pass.
type BlockedAccount struct {
	Username string
	Score    float64
	Reasons  []string
}

// Report summarizes one scan pass.
type Report struct {
	ID        string
	StartedAt time.Time
	Scanned   int
	Blocked   int
	SpamFound []BlockedAccount
}

// Scanner walks replies to tracked posts, scores them, and blocks
// spam authors. Per-item failures are logged and skipped so one bad
// reply never aborts a pass.
type Scanner struct {
	platform PlatformClient
	store    ledgerStore
	scorer   *spam.Scorer
	arbiter  spamArbiter

	postBatchSize int
	replyPageSize int
	logger        *log.Entry
}

func NewScanner(platform PlatformClient, store ledgerStore, scorer *spam.Scorer) *Scanner {
	return &Scanner{
		platform:      platform,
		store:         store,
		scorer:        scorer,
		postBatchSize: DefaultPostBatchSize,
		replyPageSize: DefaultReplyPageSize,
		logger:        log.WithField("object", "Scanner"),
	}
}

// WithArbiter attaches an LLM second opinion for borderline scores.
// The scanner degrades to pure heuristics when the arbiter errors.
func (s *Scanner) WithArbiter(arbiter spamArbiter) *Scanner {
	s.arbiter = arbiter
	return s
}

// WithBatchSizes overrides the default posts-per-pass and
// replies-per-post limits. Non-positive values keep the defaults.
func (s *Scanner) WithBatchSizes(posts, replies int) *Scanner {
	if posts > 0 {
		s.postBatchSize = posts
	}
	if replies > 0 {
		s.replyPageSize = replies
	}
	return s
}

// TrackPost registers one of our own posts for periodic reply scans.
func (s *Scanner) TrackPost(ctx context.Context, postID string) error {
	return s.store.RecordTrackedPost(ctx, postID)
}

// Stats reports ledger totals.
func (s *Scanner) Stats(ctx context.Context) (*db.Stats, error) {
	return s.store.Stats(ctx)
}

// ScanAndProtect runs one pass. With no explicit postIDs it pulls the
// posts due for a rescan from the ledger. The returned report counts
// newly evaluated replies; replies seen in an earlier pass tally as
// scanned but are not re-evaluated.
func (s *Scanner) ScanAndProtect(ctx context.Context, postIDs ...string) (*Report, error) {
	ctx, span := otel.Tracer("moderation").Start(ctx, "scan_and_protect")
	defer span.End()
	observe := observability.StartScanPass()

	report := &Report{ID: uuid.New(), StartedAt: time.Now().UTC()}

	if len(postIDs) == 0 {
		due, err := s.store.PostsDueForScan(ctx, s.postBatchSize)
		if err != nil {
			observe("error")
			return nil, fmt.Errorf("list posts due for scan: %w", err)
		}
		postIDs = due
	}

	for _, postID := range postIDs {
		if err := ctx.Err(); err != nil {
			observe("error")
			return report, err
		}
		s.scanPost(ctx, postID, report)
	}

	observe("ok")
	s.logger.WithField("report_id", report.ID).
		WithField("posts", len(postIDs)).
		WithField("scanned", report.Scanned).
		WithField("blocked", report.Blocked).
		Info("scan pass finished")
	return report, nil
}

func (s *Scanner) scanPost(ctx context.Context, postID string, report *Report) {
	entry := s.logger.WithField("post_id", postID)

	replies, err := s.platform.GetReplies(ctx, postID, s.replyPageSize)
	if err != nil {
		// The post stays due so the next pass retries it.
		entry.WithError(err).Warn("failed to fetch replies")
		return
	}

	for _, reply := range replies {
		s.scanReply(ctx, postID, reply, report)
	}

	if err := s.store.MarkPostScanned(ctx, postID); err != nil {
		entry.WithError(err).Warn("failed to mark post scanned")
	}
}

func (s *Scanner) scanReply(ctx context.Context, postID string, reply Reply, report *Report) {
	if reply.ID == "" || reply.AuthorID == "" {
		// A ledger row keyed by the empty string would make every
		// later ID-less reply look already scanned.
		s.logger.WithField("post_id", postID).Debug("skipping reply with missing identifiers")
		return
	}
	entry := s.logger.WithField("reply_id", reply.ID)

	seen, err := s.store.WasScanned(ctx, reply.ID)
	if err != nil {
		entry.WithError(err).Warn("failed to check scan ledger")
		return
	}
	if seen {
		report.Scanned++
		return
	}

	blocked, err := s.store.IsUserBlocked(ctx, reply.AuthorID)
	if err != nil {
		entry.WithError(err).Warn("failed to check block ledger")
		return
	}
	if blocked {
		// Known-bad author: record the reply as spam without another
		// platform action.
		if prior, err := s.store.GetBlockedUser(ctx, reply.AuthorID); err == nil {
			entry = entry.WithField("blocked_reason", prior.Reason)
		} else if !errors.Is(err, db.ErrNotFound) {
			entry.WithError(err).Warn("failed to load block record")
		}
		if err := s.store.RecordScan(ctx, reply.ID, reply.AuthorID, true); err != nil {
			entry.WithError(err).Warn("failed to record scan")
		}
		entry.Debug("reply from blocked author recorded as spam")
		return
	}

	score := s.scorer.ScoreReply(reply.Text, spam.Profile{
		ID:             reply.Author.ID,
		Username:       reply.Author.Username,
		FollowersCount: reply.Author.FollowersCount,
		FollowingCount: reply.Author.FollowingCount,
		TweetCount:     reply.Author.TweetCount,
		Description:    reply.Author.Description,
		CreatedAt:      reply.Author.CreatedAt,
	})
	source := "heuristic"
	if verdict, ok := s.secondOpinion(ctx, reply.Text, score); ok {
		score.IsSpam = verdict
		if verdict {
			score.Reasons = append(score.Reasons, "LLM verdict")
			source = "llm"
		}
	}

	if err := s.store.RecordScan(ctx, reply.ID, reply.AuthorID, score.IsSpam); err != nil {
		entry.WithError(err).Warn("failed to record scan")
		return
	}
	report.Scanned++

	if !score.IsSpam {
		return
	}
	observability.RecordSpamDetection(source)
	observability.Logger.Warn("spam reply detected",
		zap.String("reply_id", reply.ID),
		zap.String("username", reply.Author.Username),
		zap.Float64("score", score.Total),
		zap.String("source", source),
	)
	s.protect(ctx, postID, reply, score, report)
}

// secondOpinion asks the arbiter about borderline heuristic scores.
// The second return is false when the heuristic verdict stands.
func (s *Scanner) secondOpinion(ctx context.Context, replyText string, score spam.Score) (bool, bool) {
	if s.arbiter == nil || score.Total < llmReviewFloor || score.Total >= spam.SpamThreshold {
		return false, false
	}
	verdict, err := s.arbiter.Detect(ctx, replyText)
	if err != nil || verdict == nil {
		if err != nil {
			s.logger.WithError(err).Warn("arbiter unavailable, keeping heuristic verdict")
		}
		return false, false
	}
	return *verdict, true
}

func (s *Scanner) protect(ctx context.Context, postID string, reply Reply, score spam.Score, report *Report) {
	entry := s.logger.WithField("user_id", reply.AuthorID).WithField("username", reply.Author.Username)

	// Both actions are attempted every time. Either one succeeding is
	// enough to consider the account handled.
	blocked, err := s.platform.BlockUser(ctx, reply.AuthorID)
	if err != nil {
		entry.WithError(err).Warn("block failed")
	}
	muted, err := s.platform.MuteUser(ctx, reply.AuthorID)
	if err != nil {
		entry.WithError(err).Warn("mute failed")
	}
	if !blocked && !muted {
		return
	}

	block := &db.BlockedUser{
		UserID:       reply.AuthorID,
		Username:     reply.Author.Username,
		Reason:       strings.Join(score.Reasons, "; "),
		SpamScore:    score.Total,
		SourcePostID: postID,
	}
	if err := s.store.RecordBlock(ctx, block); err != nil {
		entry.WithError(err).Warn("failed to record block")
		return
	}
	observability.RecordBlock()
	observability.Logger.Info("user blocked",
		zap.String("user_id", reply.AuthorID),
		zap.String("username", reply.Author.Username),
		zap.String("source_post_id", postID),
	)
	report.Blocked++
	report.SpamFound = append(report.SpamFound, BlockedAccount{
		Username: reply.Author.Username,
		Score:    score.Total,
		Reasons:  score.Reasons,
	})
}
