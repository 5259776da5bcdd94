package activity

import (
	"strconv"
	"testing"
	"time"

	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataOf(t *testing.T, resp response.ResponseBody) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "响应数据不是对象: %v", resp.Data)
	return data
}

func paramID(id uint) test.Option {
	return test.WithParam("id", strconv.FormatUint(uint64(id), 10))
}

// 管理员创建直接通过，社团管理员创建需要审核
func TestCreateActivityStatusByRole(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	owner := seedUser(t, db, model.RoleClubAdmin)
	club := seedClub(t, db, owner.ID)

	req := ActivityCreateReq{
		Title:     "迎新晚会",
		ClubID:    club.ID,
		StartTime: testStart,
		EndTime:   testEnd,
		Points:    5,
	}

	resp := test.DoRequest(t, CreateActivity, req, test.WithPayload(claimsOf(admin)))
	test.NoError(t, resp)
	assert.Equal(t, model.ActivityStatusApproved, dataOf(t, resp)["status"])

	resp = test.DoRequest(t, CreateActivity, req, test.WithPayload(claimsOf(owner)))
	test.NoError(t, resp)
	assert.Equal(t, model.ActivityStatusPending, dataOf(t, resp)["status"])

	// 不是该社团管理员的社团管理员无权创建
	other := seedUser(t, db, model.RoleClubAdmin)
	resp = test.DoRequest(t, CreateActivity, req, test.WithPayload(claimsOf(other)))
	test.ErrorEqual(t, response.ErrForbidden, resp)
}

func TestCreateActivityValidation(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)

	// 开始时间晚于结束时间
	resp := test.DoRequest(t, CreateActivity, ActivityCreateReq{
		Title:     "时间写反了",
		ClubID:    club.ID,
		StartTime: testEnd,
		EndTime:   testStart,
	}, test.WithPayload(claimsOf(admin)))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	// 未指定最大人数时落库为默认值
	resp = test.DoRequest(t, CreateActivity, ActivityCreateReq{
		Title:     "默认名额",
		ClubID:    club.ID,
		StartTime: testStart,
		EndTime:   testEnd,
	}, test.WithPayload(claimsOf(admin)))
	test.NoError(t, resp)

	var activity model.Activity
	require.NoError(t, db.First(&activity, "title = ?", "默认名额").Error)
	assert.Equal(t, defaultMaxParticipants, activity.MaxParticipants)
}

func TestReviewActivity(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)

	approve := seedActivity(t, db, club.ID, model.ActivityStatusPending, testStart, testEnd, 5, 10)
	resp := test.DoRequest(t, ReviewActivity, ReviewActivityReq{Status: model.ActivityStatusApproved},
		test.WithPayload(claimsOf(admin)), paramID(approve.ID))
	test.NoError(t, resp)

	var got model.Activity
	require.NoError(t, db.First(&got, approve.ID).Error)
	assert.Equal(t, model.ActivityStatusApproved, got.Status)

	reject := seedActivity(t, db, club.ID, model.ActivityStatusPending, testStart, testEnd, 5, 10)
	resp = test.DoRequest(t, ReviewActivity, ReviewActivityReq{
		Status:   model.ActivityStatusRejected,
		Feedback: "材料不全",
	}, test.WithPayload(claimsOf(admin)), paramID(reject.ID))
	test.NoError(t, resp)

	got = model.Activity{}
	require.NoError(t, db.First(&got, reject.ID).Error)
	assert.Equal(t, model.ActivityStatusRejected, got.Status)
	assert.Equal(t, "材料不全", got.Feedback)

	// 已审核过的活动不能再次审核
	resp = test.DoRequest(t, ReviewActivity, ReviewActivityReq{Status: model.ActivityStatusApproved},
		test.WithPayload(claimsOf(admin)), paramID(reject.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, ReviewActivity, ReviewActivityReq{Status: model.ActivityStatusApproved},
		test.WithPayload(claimsOf(admin)), test.WithParam("id", "99999"))
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

// 社团管理员修改已通过的活动会回到待审核并清空审核意见
func TestUpdateActivityResetsStatus(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, model.RoleClubAdmin)
	club := seedClub(t, db, owner.ID)
	activity := seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10)
	require.NoError(t, db.Model(&activity).Update("feedback", "首次通过").Error)

	title := "改名后的活动"
	resp := test.DoRequest(t, UpdateActivity, ActivityUpdateReq{Title: &title},
		test.WithPayload(claimsOf(owner)), paramID(activity.ID))
	test.NoError(t, resp)

	var got model.Activity
	require.NoError(t, db.First(&got, activity.ID).Error)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, model.ActivityStatusPending, got.Status)
	assert.Empty(t, got.Feedback)

	// 系统管理员的修改不回退审核状态
	admin := seedUser(t, db, model.RoleAdmin)
	require.NoError(t, db.Model(&got).Update("status", model.ActivityStatusApproved).Error)
	location := "新场地"
	resp = test.DoRequest(t, UpdateActivity, ActivityUpdateReq{Location: &location},
		test.WithPayload(claimsOf(admin)), paramID(activity.ID))
	test.NoError(t, resp)

	require.NoError(t, db.First(&got, activity.ID).Error)
	assert.Equal(t, model.ActivityStatusApproved, got.Status)
}

func TestUpdateActivityValidation(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)
	activity := seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10)

	badPoints := -1
	resp := test.DoRequest(t, UpdateActivity, ActivityUpdateReq{Points: &badPoints},
		test.WithPayload(claimsOf(admin)), paramID(activity.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	badMax := 0
	resp = test.DoRequest(t, UpdateActivity, ActivityUpdateReq{MaxParticipants: &badMax},
		test.WithPayload(claimsOf(admin)), paramID(activity.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	badStart := testEnd + 1
	resp = test.DoRequest(t, UpdateActivity, ActivityUpdateReq{StartTime: &badStart},
		test.WithPayload(claimsOf(admin)), paramID(activity.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	// 其他社团的管理员无权修改
	other := seedUser(t, db, model.RoleClubAdmin)
	title := "越权修改"
	resp = test.DoRequest(t, UpdateActivity, ActivityUpdateReq{Title: &title},
		test.WithPayload(claimsOf(other)), paramID(activity.ID))
	test.ErrorEqual(t, response.ErrForbidden, resp)
}

func TestDeleteActivityCascade(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)
	activity := seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10)

	for i := 0; i < 2; i++ {
		u := seedUser(t, db, model.RoleStudent)
		require.Nil(t, joinActivity(db, u.ID, activity.ID, testStart-3600))
	}

	resp := test.DoRequest(t, DeleteActivity, nil,
		test.WithPayload(claimsOf(admin)), paramID(activity.ID))
	test.NoError(t, resp)
	assert.EqualValues(t, 2, dataOf(t, resp)["deleted_registrants"])

	assert.EqualValues(t, 0, registrationCount(t, db, activity.ID))
	var n int64
	require.NoError(t, db.Model(&model.Activity{}).Where("id = ?", activity.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestListActivities(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)

	now := time.Now().Unix()
	upcoming := seedActivity(t, db, club.ID, model.ActivityStatusApproved, now+7200, now+10800, 5, 10)
	past := seedActivity(t, db, club.ID, model.ActivityStatusApproved, now-10800, now-7200, 5, 10)
	seedActivity(t, db, club.ID, model.ActivityStatusPending, now+3600, now+10800, 5, 10)

	resp := test.DoRequest(t, ListActivities, nil, test.WithPayload(claimsOf(admin)))
	test.NoError(t, resp)
	data := dataOf(t, resp)
	assert.EqualValues(t, 3, data["total"])

	// 按开始时间倒序，未开始的活动在最前
	list, ok := data["activities"].([]any)
	require.True(t, ok)
	require.Len(t, list, 3)
	first := list[0].(map[string]any)
	assert.EqualValues(t, upcoming.ID, first["id"])
	assert.Equal(t, model.ActivityStatusUpcoming, first["status"])

	// 已通过但时间已过的活动对外呈现为已完成
	for _, item := range list {
		a := item.(map[string]any)
		if uint(a["id"].(float64)) == past.ID {
			assert.Equal(t, model.ActivityStatusCompleted, a["status"])
		}
	}
}

func TestGetActivity(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)
	activity := seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10)

	joined := seedUser(t, db, model.RoleStudent)
	bystander := seedUser(t, db, model.RoleStudent)
	require.Nil(t, joinActivity(db, joined.ID, activity.ID, testStart-3600))

	resp := test.DoRequest(t, GetActivity, nil,
		test.WithPayload(claimsOf(joined)), paramID(activity.ID))
	test.NoError(t, resp)
	data := dataOf(t, resp)
	assert.Equal(t, true, data["is_joined"])

	participants, ok := data["participants"].([]any)
	require.True(t, ok)
	require.Len(t, participants, 1)
	assert.EqualValues(t, joined.ID, participants[0].(map[string]any)["user_id"])

	resp = test.DoRequest(t, GetActivity, nil,
		test.WithPayload(claimsOf(bystander)), paramID(activity.ID))
	test.NoError(t, resp)
	assert.Equal(t, false, dataOf(t, resp)["is_joined"])

	resp = test.DoRequest(t, GetActivity, nil,
		test.WithPayload(claimsOf(bystander)), test.WithParam("id", "99999"))
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestMyActivities(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)
	student := seedUser(t, db, model.RoleStudent)

	first := seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10)
	second := seedActivity(t, db, club.ID, model.ActivityStatusApproved, testEnd+3600, testEnd+7200, 8, 10)
	seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10) // 未参加

	require.Nil(t, joinActivity(db, student.ID, first.ID, testStart-3600))
	require.Nil(t, joinActivity(db, student.ID, second.ID, testEnd+3600))

	_, serr := settleActivity(db, first.ID, []uint{student.ID})
	require.Nil(t, serr)

	resp := test.DoRequest(t, MyActivities, nil, test.WithPayload(claimsOf(student)))
	test.NoError(t, resp)
	data := dataOf(t, resp)
	assert.EqualValues(t, 2, data["total"])

	list, ok := data["activities"].([]any)
	require.True(t, ok)
	for _, item := range list {
		a := item.(map[string]any)
		switch uint(a["id"].(float64)) {
		case first.ID:
			assert.Equal(t, model.RegistrationStatusCompleted, a["participation_status"])
			assert.EqualValues(t, 5, a["earned_points"])
		case second.ID:
			assert.Equal(t, model.RegistrationStatusRegistered, a["participation_status"])
			assert.EqualValues(t, 0, a["earned_points"])
		default:
			t.Fatalf("返回了未参加的活动: %v", a["id"])
		}
	}
}

func TestPendingActivities(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	club := seedClub(t, db, admin.ID)

	seedActivity(t, db, club.ID, model.ActivityStatusApproved, testStart, testEnd, 5, 10)
	seedActivity(t, db, club.ID, model.ActivityStatusPending, testStart, testEnd, 5, 10)
	seedActivity(t, db, club.ID, model.ActivityStatusPending, testStart, testEnd, 5, 10)

	resp := test.DoRequest(t, PendingActivities, nil, test.WithPayload(claimsOf(admin)))
	test.NoError(t, resp)
	assert.EqualValues(t, 2, dataOf(t, resp)["total"])
}
