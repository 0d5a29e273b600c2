// Package profile serves the authenticated user's profile.
package profile

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-responseschema/internal/platform/auth"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	profilesvc "github.com/janisto/huma-responseschema/internal/service/profile"
	"github.com/janisto/huma-responseschema/responseschema"
)

type handler struct {
	store profilesvc.Store
	path  string
}

// Register adds the profile operations under prefix. DELETE answers 204
// without a body and is registered directly with huma.
func Register(a huma.API, store profilesvc.Store, prefix string) {
	h := handler{store: store, path: prefix + "/profile"}
	op := func(id, method, summary string) huma.Operation {
		return huma.Operation{
			OperationID: id,
			Method:      method,
			Path:        h.path,
			Summary:     summary,
			Tags:        []string{"Profile"},
			Security:    auth.Security(),
			Errors:      []int{http.StatusUnauthorized},
		}
	}

	create := op("create-profile", http.MethodPost, "Create the caller's profile")
	create.DefaultStatus = http.StatusCreated
	create.Errors = append(create.Errors, http.StatusConflict)
	responseschema.Register(a, create, h.create, responseschema.ResponseDescription("Profile created"))

	get := op("get-profile", http.MethodGet, "Get the caller's profile")
	get.Errors = append(get.Errors, http.StatusNotFound)
	responseschema.Register(a, get, h.get)

	update := op("update-profile", http.MethodPatch, "Update the caller's profile")
	update.Errors = append(update.Errors, http.StatusNotFound)
	responseschema.Register(a, update, h.update)

	del := op("delete-profile", http.MethodDelete, "Delete the caller's profile")
	del.DefaultStatus = http.StatusNoContent
	del.Errors = append(del.Errors, http.StatusNotFound)
	huma.Register(a, del, h.delete)
}

func (h handler) create(ctx context.Context, in *CreateInput) (responseschema.Reply[Profile], error) {
	var zero responseschema.Reply[Profile]
	if !in.Body.Terms {
		return zero, responseschema.UnprocessableEntity("terms must be accepted")
	}
	p, err := h.store.Create(ctx, auth.UserFromContext(ctx).UID, profilesvc.CreateParams{
		Firstname:   in.Body.Firstname,
		Lastname:    in.Body.Lastname,
		Email:       in.Body.Email,
		PhoneNumber: in.Body.PhoneNumber,
		Marketing:   in.Body.Marketing,
		Terms:       in.Body.Terms,
	})
	if err != nil {
		return zero, storeError(ctx, err)
	}
	return responseschema.Respond(view(p), responseschema.Metadata{
		responseschema.MetaHeaders: map[string]string{"Location": h.path},
	}), nil
}

func (h handler) get(ctx context.Context, _ *struct{}) (Profile, error) {
	p, err := h.store.Get(ctx, auth.UserFromContext(ctx).UID)
	if err != nil {
		return Profile{}, storeError(ctx, err)
	}
	return view(p), nil
}

func (h handler) update(ctx context.Context, in *UpdateInput) (Profile, error) {
	if in.empty() {
		return Profile{}, responseschema.UnprocessableEntity("at least one field must be provided")
	}
	p, err := h.store.Update(ctx, auth.UserFromContext(ctx).UID, profilesvc.UpdateParams{
		Firstname:   in.Body.Firstname,
		Lastname:    in.Body.Lastname,
		Email:       in.Body.Email,
		PhoneNumber: in.Body.PhoneNumber,
		Marketing:   in.Body.Marketing,
	})
	if err != nil {
		return Profile{}, storeError(ctx, err)
	}
	return view(p), nil
}

func (h handler) delete(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := h.store.Delete(ctx, auth.UserFromContext(ctx).UID); err != nil {
		return nil, storeError(ctx, err)
	}
	return nil, nil
}

func storeError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return responseschema.NotFound("profile not found")
	case errors.Is(err, profilesvc.ErrAlreadyExists):
		return responseschema.Conflict("profile already exists")
	default:
		logging.LogError(ctx, "profile store failed", err)
		return responseschema.InternalServerError("internal error")
	}
}

func view(p *profilesvc.Profile) Profile {
	return Profile{
		ID:          p.ID,
		Firstname:   p.Firstname,
		Lastname:    p.Lastname,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Marketing:   p.Marketing,
		Terms:       p.Terms,
		CreatedAt:   p.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:   p.UpdatedAt.UTC().Truncate(time.Millisecond),
	}
}
