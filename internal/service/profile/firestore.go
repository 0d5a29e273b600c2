package profile

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collection = "profiles"

// FirestoreStore stores profiles as documents named by user ID. Mutations run
// in transactions.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(userID string) *firestore.DocumentRef {
	return s.client.Collection(collection).Doc(userID)
}

func (s *FirestoreStore) Create(ctx context.Context, userID string, params CreateParams) (*Profile, error) {
	ref := s.doc(userID)
	p := newProfile(userID, params, time.Now().UTC())

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case err == nil && snap.Exists():
			return ErrAlreadyExists
		case err != nil && status.Code(err) != codes.NotFound:
			return err
		}
		return tx.Create(ref, p)
	})
	audit(ctx, "create", userID, err)
	if err != nil {
		return nil, wrap("create", err)
	}
	return p, nil
}

func (s *FirestoreStore) Get(ctx context.Context, userID string) (*Profile, error) {
	snap, err := s.doc(userID).Get(ctx)
	if err != nil {
		return nil, wrap("get", notFound(err))
	}
	return decode(userID, snap)
}

func (s *FirestoreStore) Update(ctx context.Context, userID string, params UpdateParams) (*Profile, error) {
	ref := s.doc(userID)
	var p *Profile

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound(err)
		}
		if p, err = decode(userID, snap); err != nil {
			return err
		}
		p.apply(params, time.Now().UTC())
		return tx.Set(ref, p)
	})
	audit(ctx, "update", userID, err)
	if err != nil {
		return nil, wrap("update", err)
	}
	return p, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, userID string) error {
	ref := s.doc(userID)
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return notFound(err)
		}
		return tx.Delete(ref)
	})
	audit(ctx, "delete", userID, err)
	return wrap("delete", err)
}

func decode(userID string, snap *firestore.DocumentSnapshot) (*Profile, error) {
	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = userID
	return &p, nil
}

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// wrap annotates err with the operation, keeping sentinels matchable.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("profile %s: %w", op, err)
}

var _ Store = (*FirestoreStore)(nil)
