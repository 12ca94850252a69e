package moderation

import "context"

// Author is the profile of a reply author as the platform reports it.
type Author struct {
	ID             string
	Username       string
	FollowersCount int
	FollowingCount int
	TweetCount     int
	Description    string
	CreatedAt      string
}

// Reply is one reply to a tracked post, with the author expanded.
type Reply struct {
	ID       string
	AuthorID string
	Text     string
	Author   Author
}

// PlatformClient is the slice of the platform API the scan loop
// needs. Block and mute report whether the action took effect; the
// scan loop attempts both and treats either success as handled.
type PlatformClient interface {
	GetReplies(ctx context.Context, postID string, maxResults int) ([]Reply, error)
	BlockUser(ctx context.Context, userID string) (bool, error)
	MuteUser(ctx context.Context, userID string) (bool, error)
}
