package service

import (
	"context"
	"io"

	"rede-backend/internal/domain"
)

// ProfileStore is the row-store boundary the services consume. Implemented
// by the hosted-service REST client.
type ProfileStore interface {
	// SelectProfiles returns every registered profile row
	SelectProfiles(ctx context.Context, accessToken string) ([]domain.Profile, error)

	// GetProfile returns the row keyed by the identity identifier
	GetProfile(ctx context.Context, accessToken, id string) (*domain.Profile, error)

	// InsertProfile creates a new profile row
	InsertProfile(ctx context.Context, accessToken string, row map[string]interface{}) error

	// UpdateProfile mutates the row keyed by id
	UpdateProfile(ctx context.Context, accessToken, id string, row map[string]interface{}) error
}

// Uploader is the object storage boundary.
type Uploader interface {
	// Upload streams an object into a bucket, overwriting when upsert is set
	Upload(ctx context.Context, accessToken, bucket, path string, contentType string, body io.Reader, upsert bool) error

	// PublicURL resolves the public URL for an uploaded object
	PublicURL(bucket, path string) string
}

// SuggestedSource fetches a batch of externally-generated profiles.
type SuggestedSource interface {
	Suggested(ctx context.Context) ([]domain.SuggestedProfile, error)
}

// AccountCreator creates a new identity with a live session. Implemented
// by the session store.
type AccountCreator interface {
	Signup(ctx context.Context, email, password string) (*domain.Session, error)
}

// SuggestedStash carries a suggested batch from the feed to the viewer,
// standing in for browser navigation state.
type SuggestedStash interface {
	StashSuggested(ctx context.Context, sessionID string, batch []domain.SuggestedProfile) error
	SuggestedByID(ctx context.Context, sessionID, id string) (*domain.SuggestedProfile, error)
}
