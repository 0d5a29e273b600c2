package profile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/firestore"

	"github.com/janisto/huma-responseschema/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func newFirestoreStore(t *testing.T) Store {
	t.Helper()
	testutil.SkipIfEmulatorUnavailable(t)
	testutil.SetupEmulator(t)
	testutil.ClearFirestore(t)

	client, err := firestore.NewClient(context.Background(), testutil.ProjectID)
	if err != nil {
		t.Fatalf("failed to create Firestore client: %v", err)
	}
	t.Cleanup(func() {
		testutil.ClearFirestore(t)
		_ = client.Close()
	})
	return NewFirestoreStore(client)
}

// forEachStore runs fn against every Store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("firestore", func(t *testing.T) { fn(t, newFirestoreStore(t)) })
}

var johnParams = CreateParams{
	Firstname:   "John",
	Lastname:    "Doe",
	Email:       "  JOHN@EXAMPLE.COM ",
	PhoneNumber: " +358401234567 ",
	Marketing:   true,
	Terms:       true,
}

func TestStoreCreateNormalizes(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		p, err := s.Create(context.Background(), "user-1", johnParams)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "user-1" || p.Firstname != "John" {
			t.Fatalf("unexpected profile %+v", p)
		}
		if p.Email != "john@example.com" {
			t.Fatalf("expected normalized email, got %q", p.Email)
		}
		if p.PhoneNumber != "+358401234567" {
			t.Fatalf("expected trimmed phone, got %q", p.PhoneNumber)
		}
		if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
			t.Fatalf("unexpected timestamps %v %v", p.CreatedAt, p.UpdatedAt)
		}
	})
}

func TestStoreCreateDuplicate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Create(ctx, "user-1", johnParams); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := s.Create(ctx, "user-1", johnParams); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestStoreGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := s.Create(ctx, "user-1", johnParams); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, err := s.Get(ctx, "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "user-1" || p.Lastname != "Doe" || !p.Terms {
			t.Fatalf("unexpected profile %+v", p)
		}
	})
}

func TestStoreUpdatePartial(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Update(ctx, "user-1", UpdateParams{}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := s.Create(ctx, "user-1", johnParams); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p, err := s.Update(ctx, "user-1", UpdateParams{
			Firstname: ptr("Jane"),
			Email:     ptr(" Jane@Example.com"),
			Marketing: ptr(false),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Firstname != "Jane" || p.Lastname != "Doe" {
			t.Fatalf("unexpected names %q %q", p.Firstname, p.Lastname)
		}
		if p.Email != "jane@example.com" || p.Marketing {
			t.Fatalf("unexpected update result %+v", p)
		}
		if p.UpdatedAt.Before(p.CreatedAt) {
			t.Fatalf("UpdatedAt %v before CreatedAt %v", p.UpdatedAt, p.CreatedAt)
		}
	})
}

func TestStoreDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Create(ctx, "user-1", johnParams); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.Delete(ctx, "user-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.Delete(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		if _, err := s.Get(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestStoreConcurrentCreate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		const workers = 8
		var (
			wg      sync.WaitGroup
			created atomic.Int32
			dupes   atomic.Int32
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Create(context.Background(), "user-1", johnParams)
				switch {
				case err == nil:
					created.Add(1)
				case errors.Is(err, ErrAlreadyExists):
					dupes.Add(1)
				}
			}()
		}
		wg.Wait()
		if created.Load() != 1 {
			t.Fatalf("expected exactly one create, got %d", created.Load())
		}
		if dupes.Load() == 0 {
			t.Fatalf("expected duplicate creates to be rejected")
		}
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	p, err := s.Create(context.Background(), "user-1", johnParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Firstname = "mutated"

	got, err := s.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Firstname != "John" {
		t.Fatalf("stored profile changed through returned pointer: %q", got.Firstname)
	}
}

func TestErrorCategory(t *testing.T) {
	cases := map[error]string{
		ErrAlreadyExists:         "already_exists",
		wrap("get", ErrNotFound): "not_found",
		errors.New("boom"):       "internal_error",
	}
	for err, want := range cases {
		if got := errorCategory(err); got != want {
			t.Fatalf("errorCategory(%v) = %q, want %q", err, got, want)
		}
	}
}
