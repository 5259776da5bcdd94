package test

import (
	"testing"

	"club-activity-system/internal/global/response"

	"github.com/stretchr/testify/require"
)

// ErrorEqual 断言响应与预期错误码一致
func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, expected.Code, resp.Code)
}

// NoError 断言响应为成功
func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, int32(200), resp.Code)
}
