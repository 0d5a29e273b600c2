// Package firebase initialises the Firebase Admin SDK clients of the
// service.
package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Options selects the Firebase project. CredentialsFile is optional; without
// it Application Default Credentials (or the emulators) are used.
type Options struct {
	ProjectID       string
	CredentialsFile string
}

// Clients holds the SDK clients used by the service.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// New creates the Auth and Firestore clients for opts.ProjectID.
func New(ctx context.Context, opts Options) (*Clients, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("firebase: project ID is required")
	}
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		creds, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase: read credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentialsJSON(creds))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: opts.ProjectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: firestore client: %w", err)
	}
	return &Clients{Auth: authClient, Firestore: fsClient}, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
