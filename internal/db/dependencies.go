package db

import "context"

// Client is the persisted spam ledger. All writes are idempotent
// upserts keyed by the entity's primary key.
type Client interface {
	Close() error

	RecordScan(ctx context.Context, replyID, authorID string, isSpam bool) error
	WasScanned(ctx context.Context, replyID string) (bool, error)
	RecordBlock(ctx context.Context, block *BlockedUser) error
	IsUserBlocked(ctx context.Context, userID string) (bool, error)
	GetBlockedUser(ctx context.Context, userID string) (*BlockedUser, error)

	RecordTrackedPost(ctx context.Context, postID string) error
	PostsDueForScan(ctx context.Context, limit int) ([]string, error)
	MarkPostScanned(ctx context.Context, postID string) error

	GetKV(ctx context.Context, key string) (string, error)
	SetKV(ctx context.Context, key string, value string) error

	Stats(ctx context.Context) (*Stats, error)
}
