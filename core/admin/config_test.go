package admin_test

import (
	"testing"

	"transease/core/admin"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", admin.Config{Host: "127.0.0.1", Port: "8080"}.Addr())
	assert.Equal(t, ":9000", admin.Config{Port: "9000"}.Addr())
}
