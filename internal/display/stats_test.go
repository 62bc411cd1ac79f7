package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelFormats(t *testing.T) {
	assert.Equal(t, "CPU:42%", formatCPULabel(42.4))
	assert.Equal(t, "Temp:48.1C", formatTempLabel(48.123))
	assert.Equal(t, "RAM:512/3794MB", formatRAMLabel(512, 3794))
	assert.Equal(t, "Disk:1024/29000MB", formatDiskLabel(1024, 29000))
	assert.Equal(t, "eth0:192.168.1.17", formatIPLabel("eth0", "192.168.1.17"))
	assert.Equal(t, "IP:unavailable", formatIPLabel("", ""))
}

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		name string
		cidr string
		want string
	}{
		{name: "cidr", cidr: "192.168.1.17/24", want: "192.168.1.17"},
		{name: "bare address", cidr: "10.0.0.2", want: "10.0.0.2"},
		{name: "ipv6 skipped", cidr: "fe80::1/64", want: ""},
		{name: "garbage", cidr: "not-an-ip", want: ""},
		{name: "empty", cidr: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIPv4(tt.cidr))
		})
	}
}
