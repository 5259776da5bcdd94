package user

import (
	"club-activity-system/internal/global/database"
	globalredis "club-activity-system/internal/global/redis"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const rankingSize = 50

// RankingEntry 积分排行榜条目
type RankingEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Points   int    `json:"points"`
}

// PointsRanking 积分排行榜：优先读 Redis ZSET，Redis 不可用时退回数据库排序
func PointsRanking(c *gin.Context) {
	if globalredis.Enabled() {
		entries, err := globalredis.TopUsers(c.Request.Context(), rankingSize)
		if err == nil && len(entries) > 0 {
			ids := make([]uint, 0, len(entries))
			for _, e := range entries {
				ids = append(ids, e.UserID)
			}
			var users []model.User
			if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err == nil {
				byID := make(map[uint]model.User, len(users))
				for _, u := range users {
					byID[u.ID] = u
				}
				ranking := make([]RankingEntry, 0, len(entries))
				for _, e := range entries {
					u, ok := byID[e.UserID]
					if !ok {
						continue
					}
					ranking = append(ranking, RankingEntry{
						UserID:   u.ID,
						Username: u.Username,
						Avatar:   u.Avatar,
						Points:   e.Points,
					})
				}
				response.Success(c, gin.H{"ranking": ranking})
				return
			}
		}
		if err != nil {
			log.Warn("读取排行榜缓存失败，回退数据库", "error", err)
		}
	}

	var users []model.User
	if err := database.DB.Order("points DESC").Limit(rankingSize).Find(&users).Error; err != nil {
		log.Error("查询积分排行失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	ranking := make([]RankingEntry, 0, len(users))
	for _, u := range users {
		ranking = append(ranking, RankingEntry{
			UserID:   u.ID,
			Username: u.Username,
			Avatar:   u.Avatar,
			Points:   u.Points,
		})
	}
	response.Success(c, gin.H{"ranking": ranking})
}

// AdjustPointsReq 管理员调整积分请求，delta 可为负
type AdjustPointsReq struct {
	UserID uint `json:"user_id" binding:"required"`
	Delta  int  `json:"delta" binding:"required"`
}

// AdjustPoints 管理员手动调整用户积分，结算之外唯一的余额变更入口
func AdjustPoints(c *gin.Context) {
	var req AdjustPointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定调分请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", req.UserID).Error; err != nil {
			return err
		}
		return tx.Model(&user).
			Update("points", gorm.Expr("points + ?", req.Delta)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		log.Error("调整积分失败", "error", err, "user_id", req.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 重新读取余额并同步排行榜
	if err := database.DB.First(&user, "id = ?", req.UserID).Error; err == nil {
		if err := globalredis.SetUserPoints(c.Request.Context(), user.ID, user.Points); err != nil {
			log.Warn("同步排行榜失败", "error", err, "user_id", user.ID)
		}
	}

	log.Info("积分调整完成",
		"user_id", req.UserID,
		"delta", req.Delta,
		"points", user.Points,
	)

	response.Success(c, gin.H{
		"user_id": user.ID,
		"points":  user.Points,
	})
}
