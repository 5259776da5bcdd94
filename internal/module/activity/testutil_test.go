package activity

import (
	"fmt"
	"strings"
	"testing"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
	selfInit()
}

// setupDB 为每个测试创建独立的内存数据库，并替换全局连接供 handler 使用
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, roleID int) model.User {
	t.Helper()
	userSeq++
	user := model.User{
		Username: fmt.Sprintf("user-%d", userSeq),
		Password: "x",
		RoleID:   roleID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedClub(t *testing.T, db *gorm.DB, adminID uint) model.Club {
	t.Helper()
	userSeq++
	club := model.Club{
		Name:    fmt.Sprintf("club-%d", userSeq),
		AdminID: adminID,
	}
	require.NoError(t, db.Create(&club).Error)
	return club
}

func seedActivity(t *testing.T, db *gorm.DB, clubID uint, status string, start, end int64, points, max int) model.Activity {
	t.Helper()
	activity := model.Activity{
		Title:           "测试活动",
		ClubID:          clubID,
		StartTime:       start,
		EndTime:         end,
		Points:          points,
		MaxParticipants: max,
		Status:          status,
	}
	require.NoError(t, db.Create(&activity).Error)
	return activity
}

func claimsOf(u model.User) *jwt.Claims {
	return &jwt.Claims{Payload: jwt.Payload{
		UserID:   u.ID,
		Username: u.Username,
		RoleID:   u.RoleID,
	}}
}

func registrationCount(t *testing.T, db *gorm.DB, activityID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Registration{}).
		Where("activity_id = ?", activityID).Count(&n).Error)
	return n
}
