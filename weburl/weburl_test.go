package weburl

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"valid https", "https://example.com/roadmap", ""},
		{"http rejected", "http://example.com", "only HTTPS"},
		{"file scheme rejected", "file:///etc/passwd", "only HTTPS"},
		{"localhost", "https://localhost/x", "localhost"},
		{"loopback ip", "https://127.0.0.1/x", "localhost"},
		{"ipv6 loopback", "https://[::1]/x", "localhost"},
		{"local domain", "https://nas.local/x", "local domain"},
		{"internal domain", "https://api.corp.internal/x", "local domain"},
		{"private ipv4", "https://10.0.0.5/x", "private IP"},
		{"private 192 range", "https://192.168.1.1/x", "private IP"},
		{"link local", "https://169.254.1.1/x", "private IP"},
		{"cgnat", "https://100.64.0.1/x", "private IP"},
		{"public ip ok", "https://93.184.216.34/x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{
		"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.0.1",
		"169.254.0.1", "100.64.0.1",
		"::1", "fc00::1", "fe80::1",
		"::ffff:192.168.1.1", // IPv4-mapped IPv6
	}
	for _, s := range private {
		ip := net.ParseIP(s)
		require.NotNil(t, ip, s)
		assert.True(t, IsPrivateIP(ip), s)
	}

	public := []string{"8.8.8.8", "93.184.216.34", "2606:4700::1111"}
	for _, s := range public {
		ip := net.ParseIP(s)
		require.NotNil(t, ip, s)
		assert.False(t, IsPrivateIP(ip), s)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a"))
	assert.True(t, IsURL("http://example.com/a"))
	assert.False(t, IsURL("ROADMAP.md"))
	assert.False(t, IsURL("/tmp/roadmap.md"))
}
