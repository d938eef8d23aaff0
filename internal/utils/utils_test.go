package utils

import (
	"net"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"Direct LAN connection", nil, "192.168.1.20:51000", "192.168.1.20"},
		{"X-Real-IP public", map[string]string{"X-Real-IP": "203.0.113.7"}, "10.0.0.1:80", "203.0.113.7"},
		{"X-Forwarded-For first public", map[string]string{"X-Forwarded-For": "10.0.0.5, 198.51.100.4"}, "10.0.0.1:80", "198.51.100.4"},
		{"X-Forwarded-For all private", map[string]string{"X-Forwarded-For": "192.168.0.9, 10.0.0.5"}, "10.0.0.1:80", "192.168.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, GetRealIP(c))
		})
	}
}

func TestFirstLANAddress(t *testing.T) {
	mustCIDR := func(s string) net.Addr {
		ip, ipNet, err := net.ParseCIDR(s)
		require.NoError(t, err)
		ipNet.IP = ip
		return ipNet
	}

	assert.Equal(t, "localhost", firstLANAddress(nil))
	assert.Equal(t, "localhost", firstLANAddress([]net.Addr{mustCIDR("127.0.0.1/8"), mustCIDR("::1/128")}))
	assert.Equal(t, "192.168.1.15", firstLANAddress([]net.Addr{
		mustCIDR("127.0.0.1/8"),
		mustCIDR("169.254.3.3/16"),
		mustCIDR("fe80::1/64"),
		mustCIDR("192.168.1.15/24"),
		mustCIDR("10.0.0.2/8"),
	}))
}

func TestGetNetworkInfo(t *testing.T) {
	info := GetNetworkInfo("3000")
	assert.Equal(t, "3000", info.Port)
	if info.LocalIP == "localhost" {
		assert.Nil(t, info.URL)
	} else {
		require.NotNil(t, info.URL)
		assert.Equal(t, "http://"+info.LocalIP+":3000", *info.URL)
	}
}

func TestParseUserAgent(t *testing.T) {
	t.Run("Desktop Chrome", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "Chrome", info.Browser)
		assert.Contains(t, info.OS, "Windows")
		assert.False(t, info.Mobile)
		assert.False(t, info.Bot)
	})

	t.Run("Mobile Safari", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
		assert.Equal(t, "Safari", info.Browser)
		assert.True(t, info.Mobile)
	})

	t.Run("Empty", func(t *testing.T) {
		info := ParseUserAgent("")
		assert.Equal(t, "Unknown/Unknown", info.String())
	})
}

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateUnlockTokenSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	other, err := GenerateUnlockTokenSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)

	_, err = GenerateSecret(0)
	assert.Error(t, err)
}
