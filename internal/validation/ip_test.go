package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shortlink/internal/validation"
)

func TestIPValidator_ValidateHost(t *testing.T) {
	v := validation.NewIPValidator()

	tests := []struct {
		hostname string
		wantErr  error
	}{
		{"example.com", nil},
		{"localhost", nil},
		{"8.8.8.8", nil},
		{"2001:4860:4860::8888", nil},
		{"[2606:4700::1111]", nil},
		{"127.0.0.1", validation.ErrPrivateIPNotAllowed},
		{"10.0.0.1", validation.ErrPrivateIPNotAllowed},
		{"169.254.169.254", validation.ErrPrivateIPNotAllowed},
		{"::ffff:192.168.1.1", validation.ErrPrivateIPNotAllowed},
		{"[::1]", validation.ErrPrivateIPNotAllowed},
		{"fd12:3456::1", validation.ErrPrivateIPNotAllowed},
		{"::", validation.ErrPrivateIPNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			err := v.ValidateHost(tt.hostname)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIPValidator_IsPublic(t *testing.T) {
	v := validation.NewIPValidator()

	tests := []struct {
		name string
		ip   string
		want bool
	}{
		{"public ipv4", "8.8.8.8", true},
		{"public ipv4 padded", " 8.8.4.4 ", true},
		{"public ipv6", "2001:4860:4860::8888", true},
		{"mapped public", "::ffff:1.1.1.1", true},
		{"loopback", "127.0.0.1", false},
		{"private 10", "10.1.2.3", false},
		{"private 172", "172.20.0.1", false},
		{"private 192", "192.168.0.10", false},
		{"this network", "0.1.2.3", false},
		{"cgnat", "100.64.0.1", false},
		{"cgnat upper", "100.127.255.255", false},
		{"ietf assignments", "192.0.0.8", false},
		{"test-net-1", "192.0.2.1", false},
		{"benchmarking", "198.19.0.1", false},
		{"test-net-2", "198.51.100.7", false},
		{"test-net-3", "203.0.113.50", false},
		{"reserved", "240.0.0.1", false},
		{"broadcast", "255.255.255.255", false},
		{"multicast", "224.0.0.251", false},
		{"mapped private", "::ffff:10.0.0.1", false},
		{"ipv6 loopback", "::1", false},
		{"ipv6 unique local", "fd00::1", false},
		{"ipv6 link local", "fe80::1", false},
		{"ipv6 link local with zone", "fe80::1%eth0", false},
		{"ipv6 documentation", "2001:db8::42", false},
		{"ipv6 documentation 3fff", "3fff:1::1", false},
		{"ipv6 discard", "100::1", false},
		{"ipv6 multicast", "ff02::1", false},
		{"empty", "", false},
		{"hostname", "example.com", false},
		{"garbage", "not-an-ip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsPublic(tt.ip))
		})
	}
}
