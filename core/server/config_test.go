package server_test

import (
	"testing"
	"time"

	"transease/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_StopTimeout(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want time.Duration
	}{
		{"Default", 0, 2 * time.Second},
		{"Negative", -1, 2 * time.Second},
		{"Custom", 500, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{StopTimeoutMS: tt.ms}
			assert.Equal(t, tt.want, c.StopTimeout())
		})
	}
}

func TestConfig_BindHost(t *testing.T) {
	assert.Equal(t, "0.0.0.0", server.Config{}.BindHost())
	assert.Equal(t, "127.0.0.1", server.Config{Host: "127.0.0.1"}.BindHost())
}

func TestAuthorizer_Allows(t *testing.T) {
	a := server.Authorizer{Root: "/srv", Permissions: server.DefaultPermissions}
	for _, p := range []byte{server.PermList, server.PermRead, server.PermWrite, server.PermRename, server.PermDelete, server.PermMkdir} {
		assert.True(t, a.Allows(p), string(p))
	}

	readOnly := server.Authorizer{Root: "/srv", Permissions: "elr"}
	assert.True(t, readOnly.Allows(server.PermRead))
	assert.False(t, readOnly.Allows(server.PermWrite))

	assert.True(t, a.AllowsUser("anonymous"))
	assert.True(t, a.AllowsUser("FTP"))
	assert.False(t, a.AllowsUser("root"))
}
