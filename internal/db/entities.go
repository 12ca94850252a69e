package db

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type (
	// BlockedUser is a user that crossed the spam threshold and was
	// blocked (or muted) on the platform. Re-blocking overwrites the
	// row, it never duplicates it.
	BlockedUser struct {
		UserID       string    `db:"user_id"`
		Username     string    `db:"username"`
		Reason       string    `db:"reason"`
		SpamScore    float64   `db:"spam_score"`
		BlockedAt    time.Time `db:"blocked_at"`
		SourcePostID string    `db:"source_post_id"`
	}

	// ScannedReply is the idempotency record for one evaluated reply.
	ScannedReply struct {
		ReplyID   string    `db:"reply_id"`
		AuthorID  string    `db:"author_id"`
		IsSpam    bool      `db:"is_spam"`
		ScannedAt time.Time `db:"scanned_at"`
	}

	// TrackedPost is one of our own posts that the scan loop revisits.
	TrackedPost struct {
		PostID      string     `db:"post_id"`
		PostedAt    time.Time  `db:"posted_at"`
		LastScanned *time.Time `db:"last_scanned"`
	}

	// Stats summarizes ledger contents for reporting.
	Stats struct {
		TotalBlocked    int     `db:"total_blocked"`
		TotalScanned    int     `db:"total_scanned"`
		SpamDetected    int     `db:"spam_detected"`
		RecentBlocks24h int     `db:"recent_blocks_24h"`
		DetectionRate   float64 `db:"detection_rate"`
	}
)

const (
	// RescanInterval is how long a tracked post stays off the scan
	// queue after a pass.
	RescanInterval = time.Hour

	// RecentBlocksWindow bounds the "recent blocks" stat.
	RecentBlocksWindow = 24 * time.Hour
)
