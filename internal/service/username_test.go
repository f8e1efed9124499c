package service_test // 测试包

import (
	"errors"
	"testing"

	"github.com/astrofinix/Revelax/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	// 表驱动：合法与非法用户名各覆盖一轮
	testCases := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"合法的普通用户名", "party_host", false},
		{"带数字的用户名", "player42", false},
		{"两个字符即达下限", "ab", false},
		{"十二个字符即达上限", "abcdefghijkl", false},
		{"太短", "a", true},
		{"太长", "abcdefghijklm", true},
		{"含空格", "bad name", true},
		{"含特殊字符", "name!", true},
		{"纯数字", "123456", true},
		{"保留字 admin", "the_admin", true},
		{"不当内容", "fuckthis", true},
		{"空字符串", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateUsername(tc.username)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, service.ErrInvalidUsername), "校验失败应包装 ErrInvalidUsername")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateRandomUsername_PassesValidation(t *testing.T) {
	// 兜底生成的用户名自身必须通过校验规则
	for i := 0; i < 50; i++ {
		username := service.GenerateRandomUsername()
		assert.NoError(t, service.ValidateUsername(username), "生成的用户名 %q 未通过校验", username)
	}
}
