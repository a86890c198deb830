package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/dream-vault/internal/logger"
)

// AchievementSeenRepository remembers which unlocked achievements a user has
// already been notified about, as a Redis set per user.
type AchievementSeenRepository struct {
	client *redis.Client
}

func NewAchievementSeenRepository(client *redis.Client) *AchievementSeenRepository {
	return &AchievementSeenRepository{client: client}
}

func seenKey(userID uuid.UUID) string {
	return fmt.Sprintf("achievements:seen:%s", userID)
}

// GetSeen returns the ids already reported to the user.
func (r *AchievementSeenRepository) GetSeen(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	key := seenKey(userID)
	ids, err := r.client.SMembers(ctx, key).Result()

	logger.Log.Infow(
		"key", key,
		"result", ids,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

// MarkSeen adds ids to the user's seen set.
func (r *AchievementSeenRepository) MarkSeen(ctx context.Context, userID uuid.UUID, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	key := seenKey(userID)
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	err := r.client.SAdd(ctx, key, members...).Err()

	logger.Log.Infow(
		"key", key,
		"ids", ids,
		"result", "ok",
		"error", err,
	)

	return err
}
