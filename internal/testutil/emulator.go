// Package testutil contains helpers for tests that run against the Firebase
// emulators. Tests using them are skipped when the emulators are not
// reachable.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"
)

const (
	AuthEmulatorHost      = "127.0.0.1:7110"
	FirestoreEmulatorHost = "127.0.0.1:7130"
	ProjectID             = "demo-test-project"
	fakeAPIKey            = "fake-api-key" //nolint:gosec // emulator only
)

func reachable(host string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SkipIfEmulatorUnavailable skips t unless both emulators accept connections.
func SkipIfEmulatorUnavailable(t *testing.T) {
	t.Helper()
	if !reachable(AuthEmulatorHost) || !reachable(FirestoreEmulatorHost) {
		t.Skip("Firebase emulators not available")
	}
}

// SetupEmulator points the Firebase SDKs at the emulators for the duration
// of t.
func SetupEmulator(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_AUTH_EMULATOR_HOST", AuthEmulatorHost)
	t.Setenv("FIRESTORE_EMULATOR_HOST", FirestoreEmulatorHost)
}

func emulatorDelete(t *testing.T, url string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("emulator request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("emulator reset %s: %v", url, err)
	}
	_ = resp.Body.Close()
}

// ClearFirestore deletes every document of the test project.
func ClearFirestore(t *testing.T) {
	t.Helper()
	emulatorDelete(t, fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents",
		FirestoreEmulatorHost, ProjectID))
}

// ClearAccounts deletes every Auth emulator user of the test project.
func ClearAccounts(t *testing.T) {
	t.Helper()
	emulatorDelete(t, fmt.Sprintf("http://%s/emulator/v1/projects/%s/accounts", AuthEmulatorHost, ProjectID))
}

// SignUp is the Auth emulator's sign-up response.
type SignUp struct {
	IDToken string `json:"idToken"`
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

// CreateUser signs up a user in the Auth emulator and returns its ID token.
func CreateUser(t *testing.T, email, password string) SignUp {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	url := fmt.Sprintf("http://%s/identitytoolkit.googleapis.com/v1/accounts:signUp?key=%s", AuthEmulatorHost, fakeAPIKey)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("sign-up request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out SignUp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode sign-up response: %v", err)
	}
	return out
}
