package utils

import (
	"regexp"
	"testing"

	"kaifacademy/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, digits, GenerateOTP())
	}
}

func TestHashPassword(t *testing.T) {
	previous := config.AppConfig
	config.AppConfig = &config.Config{SaltRound: 4}
	t.Cleanup(func() { config.AppConfig = previous })

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGetFileURL(t *testing.T) {
	assert.Equal(t, "", GetFileURL(""))
	assert.Equal(t, "/uploads/avatars/a.png", GetFileURL("avatars/a.png"))
}
