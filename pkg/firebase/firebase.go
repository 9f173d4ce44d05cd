package firebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Config selects the service account used for Google sign-in
type Config struct {
	CredentialsPath string
	ProjectID       string
}

// Enabled reports whether Google sign-in should be offered
func (c Config) Enabled() bool {
	return c.CredentialsPath != ""
}

// NewAuthClient returns the Firebase auth client that verifies Google
// sign-in ID tokens. It returns nil and no error when sign-in is not configured.
func NewAuthClient(ctx context.Context, cfg Config) (*auth.Client, error) {
	if !cfg.Enabled() {
		log.Info().Msg("Firebase credentials not configured, Google sign-in disabled.")
		return nil, nil
	}

	if _, err := os.Stat(cfg.CredentialsPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", cfg.CredentialsPath)
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info().Msg("Firebase auth client initialized, Google sign-in enabled.")
	return client, nil
}
