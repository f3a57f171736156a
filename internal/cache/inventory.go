package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix           = "user:%d"
	PostKeyPrefix           = "post:%d"
	ChallengeKeyPrefix      = "challenge:%d"
	ChallengeListPrefix     = "challenges:list:%d:%d"
	SubmissionsListPrefix   = "challenge:%d:submissions"
	ChallengeListScanFormat = "challenges:list:*"
)

const (
	UserTTL        = 5 * time.Minute
	PostTTL        = 30 * time.Minute
	ChallengeTTL   = 10 * time.Minute
	ListTTL        = 2 * time.Minute
	SubmissionsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ChallengeKey(challengeID uint) string {
	return fmt.Sprintf(ChallengeKeyPrefix, challengeID)
}

func ChallengeListKey(page, limit int) string {
	return fmt.Sprintf(ChallengeListPrefix, page, limit)
}

func SubmissionsKey(challengeID uint) string {
	return fmt.Sprintf(SubmissionsListPrefix, challengeID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateChallenge drops the cached challenge along with its submissions
// list, since the denormalized submission count lives on both.
func InvalidateChallenge(ctx context.Context, challengeID uint) {
	Invalidate(ctx, ChallengeKey(challengeID))
	Invalidate(ctx, SubmissionsKey(challengeID))
}

// InvalidateChallengeLists drops every cached page of the challenge listing.
// Pages are keyed by page and limit, so a scan is needed to find them all.
func InvalidateChallengeLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, ChallengeListScanFormat, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
