package response

import (
	"fmt"
	"net/http"

	"club-activity-system/config"

	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应结构
type ResponseBody struct {
	Code int32  `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// 通用错误码
var (
	ErrInvalidRequest  = newError(10001, "请求参数错误")
	ErrUnauthorized    = newError(10002, "当前用户无权限")
	ErrTokenInvalid    = newError(10003, "登录凭证无效或已过期")
	ErrForbidden       = newError(10004, "没有操作权限")
	ErrNotFound        = newError(10005, "资源不存在")
	ErrAlreadyExists   = newError(10006, "资源已存在")
	ErrDatabase        = newError(10007, "数据库操作失败")
	ErrInvalidPassword = newError(10008, "用户名或密码错误")
	ErrServerInternal  = newError(10009, "服务器内部错误")
)

// 活动与报名领域错误码
var (
	ErrWindowClosed           = newError(20001, "不在允许的时间窗口内")
	ErrCapacityExceeded       = newError(20002, "活动报名人数已达上限")
	ErrAlreadyRegistered      = newError(20003, "已经报名参加此活动")
	ErrNoEligibleParticipants = newError(20004, "没有符合条件的参与者")
	ErrClubHasActivities      = newError(20005, "社团存在关联活动，无法删除")
)

// Success 返回成功响应，data 最多传一个
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{
		Code: 200,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Fail 返回失败响应；release 模式下不向前端透出原始错误
func Fail(c *gin.Context, err error) {
	e, ok := err.(*Error)
	if !ok {
		e = ErrServerInternal.WithOrigin(err)
	}

	body := ResponseBody{
		Code: e.Code,
		Msg:  e.Message,
	}
	if config.Get().Mode == config.ModeDebug && e.Origin != "" {
		body.Data = gin.H{"origin": e.Origin}
	}
	c.Set(ErrorContextKey, e)
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 handler panic，返回统一错误
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		Fail(c, ErrServerInternal.WithOrigin(fmt.Errorf("panic: %v", r)))
		c.Abort()
	}
}
