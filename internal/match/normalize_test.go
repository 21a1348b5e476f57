package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"MaxIdleConns", "maxidleconns"},
		{"max_idle_conns", "maxidleconns"},
		{"max-idle-conns", "maxidleconns"},
		{"MAX_IDLE_CONNS", "maxidleconns"},
		{"Max-Idle-Conns", "maxidleconns"},
		{"maxIdleConns", "maxidleconns"},
		{"TLSConfig", "tlsconfig"},
		{"server.port", "serverport"},
		{"ID", "id"},
		{"a", "a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdent(tt.in))
		})
	}
}
