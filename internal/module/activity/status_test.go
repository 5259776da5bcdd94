package activity

import (
	"testing"

	"club-activity-system/internal/model"

	"github.com/stretchr/testify/assert"
)

const (
	testStart int64 = 1_700_000_000
	testEnd   int64 = testStart + 2*3600
)

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		now    int64
		want   string
	}{
		{"待审核不受时间影响", model.ActivityStatusPending, testEnd + 1, model.ActivityStatusPending},
		{"已拒绝不受时间影响", model.ActivityStatusRejected, testEnd + 1, model.ActivityStatusRejected},
		{"已通过且未开始", model.ActivityStatusApproved, testStart - 1, model.ActivityStatusUpcoming},
		{"已通过且恰好开始", model.ActivityStatusApproved, testStart, model.ActivityStatusOngoing},
		{"已通过且进行中", model.ActivityStatusApproved, testStart + 3600, model.ActivityStatusOngoing},
		{"已通过且恰好结束", model.ActivityStatusApproved, testEnd, model.ActivityStatusOngoing},
		{"已通过且已结束", model.ActivityStatusApproved, testEnd + 1, model.ActivityStatusCompleted},
		{"已完成是终态", model.ActivityStatusCompleted, testStart + 1, model.ActivityStatusCompleted},
		{"已完成早于开始时间也是终态", model.ActivityStatusCompleted, testStart - 100, model.ActivityStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveStatus(tt.stored, testStart, testEnd, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 已通过活动的推导状态对任意时刻都恰好落在三种状态之一
func TestEffectiveStatusPartitionIsTotal(t *testing.T) {
	derived := map[string]bool{
		model.ActivityStatusUpcoming:  true,
		model.ActivityStatusOngoing:   true,
		model.ActivityStatusCompleted: true,
	}
	for now := testStart - 5; now <= testEnd+5; now++ {
		got := EffectiveStatus(model.ActivityStatusApproved, testStart, testEnd, now)
		assert.True(t, derived[got], "now=%d got=%s", now, got)
	}
}

func TestJoinWindowBoundaries(t *testing.T) {
	a := &model.Activity{
		Status:    model.ActivityStatusApproved,
		StartTime: testStart,
		EndTime:   testEnd,
	}

	assert.True(t, joinWindowOpen(a, testStart-1), "开始前可报名")
	assert.True(t, joinWindowOpen(a, testStart), "开始瞬间可报名")
	assert.True(t, joinWindowOpen(a, testStart+JoinGraceSeconds), "宽限期最后一秒（含）可报名")
	assert.False(t, joinWindowOpen(a, testStart+JoinGraceSeconds+1), "宽限期过后不可报名")
	assert.False(t, joinWindowOpen(a, testEnd+1), "结束后不可报名")

	pending := &model.Activity{Status: model.ActivityStatusPending, StartTime: testStart, EndTime: testEnd}
	assert.False(t, joinWindowOpen(pending, testStart-1), "未通过审核不可报名")
}

func TestLeaveWindowBoundaries(t *testing.T) {
	a := &model.Activity{
		Status:    model.ActivityStatusApproved,
		StartTime: testStart,
		EndTime:   testEnd,
	}

	assert.True(t, leaveWindowOpen(a, testStart-1), "开始前可取消")
	// 开始瞬间取消已被禁止，与报名宽限的闭区间边界不对称
	assert.False(t, leaveWindowOpen(a, testStart), "开始瞬间不可取消")
	assert.False(t, leaveWindowOpen(a, testStart+1), "开始后不可取消")
}
