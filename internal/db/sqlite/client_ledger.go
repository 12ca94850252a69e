package sqlite

import (
	"context"
	"time"

	"github.com/iamwavecut/tool"

	"github.com/postguard/postguard/internal/db"
)

func (s *sqliteClient) RecordScan(ctx context.Context, replyID, authorID string, isSpam bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	query := `
		INSERT INTO scanned_replies (reply_id, author_id, is_spam, scanned_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(reply_id) DO UPDATE SET
		author_id = excluded.author_id,
		is_spam = excluded.is_spam,
		scanned_at = excluded.scanned_at
	`
	_, err := s.db.ExecContext(ctx, query, replyID, authorID, isSpam, time.Now().UTC())
	return err
}

func (s *sqliteClient) WasScanned(ctx context.Context, replyID string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scanned_replies WHERE reply_id = ?`, replyID)
	return count > 0, err
}

func (s *sqliteClient) RecordBlock(ctx context.Context, block *db.BlockedUser) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if block.BlockedAt.IsZero() {
		block.BlockedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO blocked_users (user_id, username, reason, spam_score, blocked_at, source_post_id)
		VALUES (:user_id, :username, :reason, :spam_score, :blocked_at, :source_post_id)
		ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		reason = excluded.reason,
		spam_score = excluded.spam_score,
		blocked_at = excluded.blocked_at,
		source_post_id = excluded.source_post_id
	`
	return tool.Err(s.db.NamedExecContext(ctx, query, block))
}

func (s *sqliteClient) IsUserBlocked(ctx context.Context, userID string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM blocked_users WHERE user_id = ?`, userID)
	return count > 0, err
}

func (s *sqliteClient) GetBlockedUser(ctx context.Context, userID string) (*db.BlockedUser, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var block db.BlockedUser
	err := s.db.GetContext(ctx, &block, `
		SELECT user_id, username, reason, spam_score, blocked_at, source_post_id
		FROM blocked_users WHERE user_id = ?
	`, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

func (s *sqliteClient) RecordTrackedPost(ctx context.Context, postID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	query := `
		INSERT INTO tracked_posts (post_id, posted_at) VALUES (?, ?)
		ON CONFLICT(post_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, postID, time.Now().UTC())
	return err
}

func (s *sqliteClient) PostsDueForScan(ctx context.Context, limit int) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cutoff := time.Now().UTC().Add(-db.RescanInterval)
	postIDs := []string{}
	err := s.db.SelectContext(ctx, &postIDs, `
		SELECT post_id FROM tracked_posts
		WHERE last_scanned IS NULL OR last_scanned <= ?
		ORDER BY posted_at DESC
		LIMIT ?
	`, cutoff, limit)
	return postIDs, err
}

func (s *sqliteClient) MarkPostScanned(ctx context.Context, postID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.db.ExecContext(ctx, `UPDATE tracked_posts SET last_scanned = ? WHERE post_id = ?`, time.Now().UTC(), postID)
	return err
}
