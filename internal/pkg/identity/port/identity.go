package port

import (
	"context"
	"errors"
)

// Profile is the slice of an account this engine needs: enough to address a
// participant and to shape conversation responses. The full account/profile
// records live in the surrounding platform.
type Profile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ErrProfileNotFound signals that the id does not resolve to a known profile.
var ErrProfileNotFound = errors.New("identity: profile not found")

// Provider resolves participant ids against the platform's profile records.
// Implementations must be safe for concurrent use.
type Provider interface {
	Resolve(ctx context.Context, userID string) (Profile, error)
}
