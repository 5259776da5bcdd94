package activity

import (
	"club-activity-system/internal/model"
)

// JoinGraceSeconds 活动开始后仍允许报名的宽限时长（秒）
const JoinGraceSeconds int64 = 3600

// EffectiveStatus 根据持久化状态和当前时间推导展示状态。
// pending/rejected 不受时间影响；completed 一经写入即为终态；
// approved 按时间三分：未开始 upcoming、进行中 ongoing、已结束 completed。
// 纯函数，所有读路径共用，避免各处各写一套边界条件。
func EffectiveStatus(stored string, startTime, endTime, now int64) string {
	if stored != model.ActivityStatusApproved {
		return stored
	}
	switch {
	case now < startTime:
		return model.ActivityStatusUpcoming
	case now > endTime:
		return model.ActivityStatusCompleted
	default:
		// startTime <= now <= endTime
		return model.ActivityStatusOngoing
	}
}

// joinWindowOpen 判断当前时刻能否报名：
// 展示状态为 upcoming，或进行中且未超过开始后一小时（含边界）。
func joinWindowOpen(a *model.Activity, now int64) bool {
	switch EffectiveStatus(a.Status, a.StartTime, a.EndTime, now) {
	case model.ActivityStatusUpcoming:
		return true
	case model.ActivityStatusOngoing:
		return now <= a.StartTime+JoinGraceSeconds
	default:
		return false
	}
}

// leaveWindowOpen 取消报名必须严格早于开始时间，与报名宽限的闭区间不对称
func leaveWindowOpen(a *model.Activity, now int64) bool {
	return now < a.StartTime
}
