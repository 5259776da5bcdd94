package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// leaderboardKey 用户积分排行榜（ZSET，score 为积分余额）
const leaderboardKey = "club-activity:points:leaderboard"

// SetUserPoints 将用户积分余额写入排行榜，结算和管理员调分后调用
func SetUserPoints(ctx context.Context, userID uint, points int) error {
	if !Enabled() {
		return nil
	}
	return RDB.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(points),
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
}

// RankEntry 排行榜条目
type RankEntry struct {
	UserID uint
	Points int
}

// TopUsers 按积分从高到低返回前 n 名
func TopUsers(ctx context.Context, n int64) ([]RankEntry, error) {
	if !Enabled() {
		return nil, nil
	}
	zs, err := RDB.ZRevRangeWithScores(ctx, leaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]RankEntry, 0, len(zs))
	for _, z := range zs {
		id, err := strconv.ParseUint(z.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, RankEntry{UserID: uint(id), Points: int(z.Score)})
	}
	return entries, nil
}
