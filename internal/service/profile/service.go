// Package profile stores user profiles keyed by the authenticated user ID.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/janisto/huma-responseschema/internal/platform/logging"
)

var (
	ErrNotFound      = errors.New("profile: not found")
	ErrAlreadyExists = errors.New("profile: already exists")
)

// Profile is a stored profile. Field tags name the Firestore document keys.
type Profile struct {
	ID          string    `firestore:"-"`
	Firstname   string    `firestore:"firstname"`
	Lastname    string    `firestore:"lastname"`
	Email       string    `firestore:"email"`
	PhoneNumber string    `firestore:"phone_number"`
	Marketing   bool      `firestore:"marketing"`
	Terms       bool      `firestore:"terms"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

// CreateParams holds the fields of a new profile.
type CreateParams struct {
	Firstname   string
	Lastname    string
	Email       string
	PhoneNumber string
	Marketing   bool
	Terms       bool
}

// UpdateParams holds a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Firstname   *string
	Lastname    *string
	Email       *string
	PhoneNumber *string
	Marketing   *bool
}

// Store persists profiles. Implementations lowercase and trim e-mail
// addresses and trim phone numbers.
type Store interface {
	Create(ctx context.Context, userID string, params CreateParams) (*Profile, error)
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, params UpdateParams) (*Profile, error)
	Delete(ctx context.Context, userID string) error
}

func newProfile(userID string, p CreateParams, now time.Time) *Profile {
	return &Profile{
		ID:          userID,
		Firstname:   p.Firstname,
		Lastname:    p.Lastname,
		Email:       normalizeEmail(p.Email),
		PhoneNumber: strings.TrimSpace(p.PhoneNumber),
		Marketing:   p.Marketing,
		Terms:       p.Terms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Profile) apply(u UpdateParams, now time.Time) {
	if u.Firstname != nil {
		p.Firstname = *u.Firstname
	}
	if u.Lastname != nil {
		p.Lastname = *u.Lastname
	}
	if u.Email != nil {
		p.Email = normalizeEmail(*u.Email)
	}
	if u.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*u.PhoneNumber)
	}
	if u.Marketing != nil {
		p.Marketing = *u.Marketing
	}
	p.UpdatedAt = now
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// audit records the outcome of a profile mutation.
func audit(ctx context.Context, action, userID string, err error) {
	ev := logging.AuditEvent{
		Action:       action,
		UserID:       userID,
		ResourceType: "profile",
		ResourceID:   userID,
		Result:       logging.AuditSuccess,
	}
	if err != nil {
		ev.Result = logging.AuditFailure
		ev.Details = map[string]any{"error": errorCategory(err)}
	}
	logging.Audit(ctx, ev)
}

func errorCategory(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}
