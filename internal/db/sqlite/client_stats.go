package sqlite

import (
	"context"
	"time"

	"github.com/postguard/postguard/internal/db"
)

func (s *sqliteClient) Stats(ctx context.Context) (*db.Stats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stats := &db.Stats{}
	if err := s.db.GetContext(ctx, &stats.TotalBlocked, `SELECT COUNT(*) FROM blocked_users`); err != nil {
		return nil, err
	}
	if err := s.db.GetContext(ctx, &stats.TotalScanned, `SELECT COUNT(*) FROM scanned_replies`); err != nil {
		return nil, err
	}
	if err := s.db.GetContext(ctx, &stats.SpamDetected, `SELECT COUNT(*) FROM scanned_replies WHERE is_spam`); err != nil {
		return nil, err
	}
	cutoff := time.Now().UTC().Add(-db.RecentBlocksWindow)
	if err := s.db.GetContext(ctx, &stats.RecentBlocks24h, `SELECT COUNT(*) FROM blocked_users WHERE blocked_at > ?`, cutoff); err != nil {
		return nil, err
	}
	if stats.TotalScanned > 0 {
		stats.DetectionRate = float64(stats.SpamDetected) / float64(stats.TotalScanned) * 100
	}
	return stats, nil
}
