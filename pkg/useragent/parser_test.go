package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	uaIPhone   = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaIPad     = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	uaGoogle   = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	uaWindows  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaAndroid  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaTelegram = "TelegramBot (like TwitterBot)"
)

func TestParser_ParseUserAgent(t *testing.T) {
	p, err := NewParser("", zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name       string
		ua         string
		deviceType string
		browser    string
		os         string
	}{
		{"iphone", uaIPhone, DeviceMobile, "Mobile Safari", "iOS"},
		{"ipad", uaIPad, DeviceTablet, "Mobile Safari", "iOS"},
		{"googlebot", uaGoogle, DeviceBot, "", ""},
		{"windows chrome", uaWindows, DeviceDesktop, "Chrome", "Windows"},
		{"android phone", uaAndroid, DeviceMobile, "Chrome Mobile", "Android"},
		{"telegram preview", uaTelegram, DeviceBot, "", ""},
		{"empty", "", Unknown, Unknown, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := p.ParseUserAgent(tt.ua)
			assert.Equal(t, tt.deviceType, info.DeviceType)
			if tt.browser != "" {
				assert.Equal(t, tt.browser, info.Browser)
			}
			if tt.os != "" {
				assert.Equal(t, tt.os, info.OS)
			}
		})
	}
}

func TestParser_Fallback(t *testing.T) {
	p := NewFallback(zap.NewNop())

	assert.Equal(t, DeviceMobile, p.ParseUserAgent(uaIPhone).DeviceType)
	assert.Equal(t, DeviceTablet, p.ParseUserAgent(uaIPad).DeviceType)
	assert.Equal(t, DeviceBot, p.ParseUserAgent(uaGoogle).DeviceType)
	assert.Equal(t, DeviceDesktop, p.ParseUserAgent(uaWindows).DeviceType)
	assert.Equal(t, Unknown, p.ParseUserAgent(uaWindows).Browser)
}

func TestNewParser_MissingFile(t *testing.T) {
	_, err := NewParser("/nonexistent/regexes.yaml", zap.NewNop())
	assert.Error(t, err)
}
