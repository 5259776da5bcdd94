package club

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/test"

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

// 创建社团会把被任命的学生提升为社团管理员
func TestCreateClubPromotesAdmin(t *testing.T) {
	db := setupDB(t)
	student := model.User{Username: "leader", Password: "x", RoleID: model.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	resp := test.DoRequest(t, CreateClub, ClubCreateReq{
		Name:    "摄影社",
		AdminID: student.ID,
	})
	test.NoError(t, resp)

	var got model.User
	require.NoError(t, db.First(&got, student.ID).Error)
	assert.Equal(t, model.RoleClubAdmin, got.RoleID)

	// 同名社团不允许重复创建
	resp = test.DoRequest(t, CreateClub, ClubCreateReq{Name: "摄影社", AdminID: student.ID})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)

	// 系统管理员被任命时角色不降级
	admin := model.User{Username: "root", Password: "x", RoleID: model.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	resp = test.DoRequest(t, CreateClub, ClubCreateReq{Name: "棋社", AdminID: admin.ID})
	test.NoError(t, resp)
	got = model.User{}
	require.NoError(t, db.First(&got, admin.ID).Error)
	assert.Equal(t, model.RoleAdmin, got.RoleID)

	resp = test.DoRequest(t, CreateClub, ClubCreateReq{Name: "无主社", AdminID: 99999})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

// 存在关联活动的社团不能删除
func TestDeleteClubBlockedByActivities(t *testing.T) {
	db := setupDB(t)
	admin := model.User{Username: "owner", Password: "x", RoleID: model.RoleClubAdmin}
	require.NoError(t, db.Create(&admin).Error)
	club := model.Club{Name: "舞蹈社", AdminID: admin.ID}
	require.NoError(t, db.Create(&club).Error)
	activity := model.Activity{
		Title: "公开课", ClubID: club.ID,
		StartTime: 1_700_000_000, EndTime: 1_700_007_200,
		Status: model.ActivityStatusApproved,
	}
	require.NoError(t, db.Create(&activity).Error)

	idParam := test.WithParam("id", strconv.FormatUint(uint64(club.ID), 10))

	resp := test.DoRequest(t, DeleteClub, nil, idParam)
	test.ErrorEqual(t, response.ErrClubHasActivities, resp)

	// 清理活动后可以删除
	require.NoError(t, db.Unscoped().Delete(&activity).Error)
	resp = test.DoRequest(t, DeleteClub, nil, idParam)
	test.NoError(t, resp)

	var n int64
	require.NoError(t, db.Model(&model.Club{}).Where("id = ?", club.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestListAndGetClub(t *testing.T) {
	db := setupDB(t)
	admin := model.User{Username: "owner", Password: "x", RoleID: model.RoleClubAdmin}
	require.NoError(t, db.Create(&admin).Error)
	for _, name := range []string{"文学社", "电竞社"} {
		require.NoError(t, db.Create(&model.Club{Name: name, AdminID: admin.ID}).Error)
	}

	resp := test.DoRequest(t, ListClubs, nil)
	test.NoError(t, resp)
	assert.EqualValues(t, 2, resp.Data.(map[string]any)["total"])

	resp = test.DoRequest(t, GetClub, nil, test.WithParam("id", "1"))
	test.NoError(t, resp)

	resp = test.DoRequest(t, GetClub, nil, test.WithParam("id", "99999"))
	test.ErrorEqual(t, response.ErrNotFound, resp)
}
