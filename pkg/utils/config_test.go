package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.App.OutboundTimeout)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, "List 20_10", cfg.Sheets.DefaultTab)
	assert.Equal(t, ".zalo-token-cache.json", cfg.Zalo.CacheFile)
	assert.Equal(t, "https://oauth.zalo.me", cfg.Zalo.OAuthURL)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
	assert.Empty(t, cfg.App.TrustedProxies, "no proxy is trusted by default")
}

func TestLoadConfigFrom_DotenvAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "EMAIL_HOST=smtp.example.com\nEMAIL_USER=shop@example.com\nEMAIL_PASSWORD=secret\nZALO_OA_ADMIN_IDS=111, 222,,333\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.App.TrustedProxies)
	assert.Equal(t, "smtp.example.com", cfg.Email.Host)
	assert.Equal(t, "secret", cfg.Email.Password)
	assert.Equal(t, "shop@example.com", cfg.Email.From, "from falls back to user")
	assert.Equal(t, []string{"shop@example.com"}, cfg.Email.BusinessTo, "business recipients fall back to user")
	assert.Equal(t, []string{"111", "222", "333"}, cfg.Zalo.AdminIDs)
	assert.True(t, cfg.Email.Configured())
}

func TestEmailConfigConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  EmailConfig
		want bool
	}{
		{"smtp complete", EmailConfig{Host: "h", User: "u", Password: "p"}, true},
		{"smtp missing password", EmailConfig{Host: "h", User: "u"}, false},
		{"sendgrid", EmailConfig{Provider: "sendgrid", SendGridAPIKey: "k", From: "f@x.io"}, true},
		{"sendgrid without key", EmailConfig{Provider: "sendgrid", From: "f@x.io"}, false},
		{"ses", EmailConfig{Provider: "ses", SESRegion: "us-east-1", From: "f@x.io"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Configured())
		})
	}
}

func TestZaloConfigEnabled(t *testing.T) {
	assert.False(t, ZaloConfig{AccessToken: "a"}.Enabled(), "no admins")
	assert.False(t, ZaloConfig{AdminIDs: []string{"1"}}.Enabled(), "no token material")
	assert.True(t, ZaloConfig{RefreshToken: "r", AdminIDs: []string{"1"}}.Enabled())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, SplitList(" a@x.io , ,b@x.io "))
}
