package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis("not-a-url", time.Minute)

	assert.ErrorContains(t, err, "invalid redis url")
}
