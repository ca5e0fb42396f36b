package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestProfileAvatarURL(t *testing.T) {
	const origin = "http://localhost:8080"

	tests := []struct {
		name     string
		profile  Profile
		fallback string
		want     string
	}{
		{
			name:    "no image uses default avatar",
			profile: Profile{Username: "alice"},
			want:    DefaultAvatarPath,
		},
		{
			name:    "empty image uses default avatar",
			profile: Profile{Username: "alice", ImagePath: strPtr("  ")},
			want:    DefaultAvatarPath,
		},
		{
			name:    "relative path resolved against origin",
			profile: Profile{ImagePath: strPtr("/uploads/alice.png")},
			want:    "http://localhost:8080/uploads/alice.png",
		},
		{
			name:    "absolute URL kept",
			profile: Profile{ImagePath: strPtr("https://cdn.example.com/a.jpg")},
			want:    "https://cdn.example.com/a.jpg",
		},
		{
			name:     "custom fallback",
			profile:  Profile{},
			fallback: "/images/avatars/2.png",
			want:     "/images/avatars/2.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.AvatarURL(origin, tt.fallback))
		})
	}
}

func TestIdentityIsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.True(t, Identity{UserID: "  "}.IsZero())
	assert.False(t, Identity{UserID: "42"}.IsZero())
}

func TestAnchorOrDefault(t *testing.T) {
	assert.Equal(t, AnchorTopCenter, Anchor{}.OrDefault())
	assert.Equal(t, AnchorTopCenter, Anchor{Vertical: VerticalTop}.OrDefault())
	assert.Equal(t, AnchorTopRight, AnchorTopRight.OrDefault())
}

func TestNavigationString(t *testing.T) {
	assert.Equal(t, "/pages/login", Navigation{Route: RouteLogin}.String())
	assert.Equal(t, "reload", Navigation{Reload: true}.String())
}
