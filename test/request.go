package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Option 调整测试请求的上下文
type Option func(c *gin.Context)

// WithPayload 注入认证信息，模拟 Auth 中间件放行后的上下文
func WithPayload(payload *jwt.Claims) Option {
	return func(c *gin.Context) {
		c.Set("payload", payload)
	}
}

// WithParam 设置路径参数
func WithParam(key, value string) Option {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	}
}

// DoRequest 构造测试上下文并执行 handler，返回解析后的响应体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any, opts ...Option) (resp response.ResponseBody) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body *bytes.Reader
	if request != nil {
		requestBytes, err := json.Marshal(request)
		require.NoError(t, err)
		body = bytes.NewReader(requestBytes)
	} else {
		body = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/test", body)
	c.Request.Header.Set("Content-Type", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}
