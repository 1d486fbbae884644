package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("5b0f7c1e-8f4a-4a52-9f0e-2a1e9d7c6b3a")

	tests := []struct {
		ext      string
		expected string
	}{
		{".png", "profile_pictures/5b0f7c1e-8f4a-4a52-9f0e-2a1e9d7c6b3a.png"},
		{"JPG", "profile_pictures/5b0f7c1e-8f4a-4a52-9f0e-2a1e9d7c6b3a.jpg"},
		{"", "profile_pictures/5b0f7c1e-8f4a-4a52-9f0e-2a1e9d7c6b3a"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.expected, ObjectKey(id, tt.ext))
		})
	}
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/profile-pictures/profile_pictures/a.png",
		ObjectURL("https://cdn.example.com/", "profile-pictures", "profile_pictures/a.png"))
	assert.Equal(t,
		"http://localhost:9000/media/profile-pictures/profile_pictures/a.png",
		ObjectURL("http://localhost:9000/media", "profile-pictures", "profile_pictures/a.png"))
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://s3.local:9000", publicBaseURL(config.MinIOConfig{Endpoint: "s3.local:9000", UseSSL: true}))
	assert.Equal(t, "http://s3.local:9000", publicBaseURL(config.MinIOConfig{Endpoint: "s3.local:9000"}))
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.MinIOConfig{Endpoint: "s3.local:9000", PublicURL: "https://cdn.example.com"}))
}

func TestNewAvatarStore_RequiresEndpoint(t *testing.T) {
	_, err := NewAvatarStore(context.Background(), config.MinIOConfig{Bucket: "profile-pictures"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestObjectKey_IsUnique(t *testing.T) {
	a := ObjectKey(uuid.New(), ".png")
	b := ObjectKey(uuid.New(), ".png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "profile_pictures/"))
}
