// Package api implements the SerenVoice REST client. The transport owns
// bearer-credential injection and the single-attempt refresh-and-replay
// on an unauthorized response; callers never deal with tokens directly.
package api

import (
	"context"

	"github.com/serenvoice/serenvoice-cli/internal/client/models"
)

// Client is the remote API surface consumed by the services layer.
type Client interface {
	// Login exchanges credentials for a token set and the user profile.
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)

	// Register creates an account. It does not authenticate: the server
	// requires a separate verification step before first login.
	Register(ctx context.Context, reg models.Registration) error

	// Logout asks the server to close the given session.
	Logout(ctx context.Context, sessionID string) error

	Groups(ctx context.Context) ([]models.Group, error)
	GroupMembers(ctx context.Context, groupID int) ([]models.Member, error)
	Activities(ctx context.Context) ([]models.Activity, error)

	// SubmitRecording uploads the audio file at path for analysis with an
	// optional mood note. Uploads run under the extended upload timeout.
	SubmitRecording(ctx context.Context, path, note string) (*models.VoiceAnalysis, error)
	Analysis(ctx context.Context, id string) (*models.VoiceAnalysis, error)

	Recommendations(ctx context.Context) ([]models.Recommendation, error)

	Close() error
}
