package user

import (
	"fmt"
	"strings"
	"testing"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/test"
	"club-activity-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
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

func TestRegisterAndLogin(t *testing.T) {
	setupDB(t)

	resp := test.DoRequest(t, Register, UserReq{Username: "alice", Password: "secret"})
	test.NoError(t, resp)

	// 新用户默认为学生角色，密码以哈希落库
	var user model.User
	require.NoError(t, database.DB.First(&user, "username = ?", "alice").Error)
	assert.Equal(t, model.RoleStudent, user.RoleID)
	assert.NotEqual(t, "secret", user.Password)
	assert.True(t, tools.PasswordCompare("secret", user.Password))

	resp = test.DoRequest(t, Register, UserReq{Username: "alice", Password: "other"})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)

	resp = test.DoRequest(t, Login, UserReq{Username: "alice", Password: "secret"})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "student", data["role"])

	// 签发的 token 能被解析回同一身份
	claims, ok := jwt.ParseToken(data["token"].(string))
	require.True(t, ok)
	assert.Equal(t, "alice", claims.Username)

	resp = test.DoRequest(t, Login, UserReq{Username: "alice", Password: "wrong"})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)

	resp = test.DoRequest(t, Login, UserReq{Username: "nobody", Password: "secret"})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)
}

func TestProfile(t *testing.T) {
	db := setupDB(t)
	user := model.User{Username: "bob", Password: "x", RoleID: model.RoleClubAdmin, Points: 30}
	require.NoError(t, db.Create(&user).Error)

	claims := &jwt.Claims{Payload: jwt.Payload{
		UserID:   user.ID,
		Username: user.Username,
		RoleID:   user.RoleID,
	}}
	resp := test.DoRequest(t, Profile, nil, test.WithPayload(claims))
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "bob", data["username"])
	assert.Equal(t, "club_admin", data["role"])
	assert.EqualValues(t, 30, data["points"])
}

func TestAdjustPoints(t *testing.T) {
	db := setupDB(t)
	user := model.User{Username: "carol", Password: "x", Points: 10}
	require.NoError(t, db.Create(&user).Error)

	resp := test.DoRequest(t, AdjustPoints, AdjustPointsReq{UserID: user.ID, Delta: 5})
	test.NoError(t, resp)
	assert.EqualValues(t, 15, resp.Data.(map[string]any)["points"])

	// 扣分同样走这个入口
	resp = test.DoRequest(t, AdjustPoints, AdjustPointsReq{UserID: user.ID, Delta: -8})
	test.NoError(t, resp)
	assert.EqualValues(t, 7, resp.Data.(map[string]any)["points"])

	resp = test.DoRequest(t, AdjustPoints, AdjustPointsReq{UserID: 99999, Delta: 5})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

// Redis 未启用时排行榜退回数据库排序
func TestPointsRankingFallback(t *testing.T) {
	db := setupDB(t)
	for i, points := range []int{5, 20, 10} {
		u := model.User{Username: fmt.Sprintf("rank-%d", i), Password: "x", Points: points}
		require.NoError(t, db.Create(&u).Error)
	}

	resp := test.DoRequest(t, PointsRanking, nil)
	test.NoError(t, resp)
	ranking := resp.Data.(map[string]any)["ranking"].([]any)
	require.Len(t, ranking, 3)
	assert.EqualValues(t, 20, ranking[0].(map[string]any)["points"])
	assert.EqualValues(t, 10, ranking[1].(map[string]any)["points"])
	assert.EqualValues(t, 5, ranking[2].(map[string]any)["points"])
}
