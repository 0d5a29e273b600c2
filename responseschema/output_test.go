package responseschema

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondRoundTrip(t *testing.T) {
	values := []any{nil, 1, "text", item{ID: 1, Name: "hello"}, []string{"a"}}
	for _, v := range values {
		md := Metadata{"k": v}
		reply := Respond(v, md)

		assert.Equal(t, v, reply.Content)
		assert.Equal(t, md, reply.Metadata)

		content, got := SplitOutput(reply)
		assert.Equal(t, v, content)
		assert.Equal(t, md, got)
	}
}

func TestSplitOutputPlainValue(t *testing.T) {
	content, md := SplitOutput(item{ID: 2})

	assert.Equal(t, item{ID: 2}, content)
	assert.Nil(t, md)
}

func TestAdaptOutputDefaultsStatusTo200(t *testing.T) {
	var got RouteParams
	s := recordingSchema{params: &got}

	out := AdaptOutput(context.Background(), item{ID: 1}, s, reflect.TypeFor[item](), RouteParams{Path: "/x"})

	assert.Equal(t, item{ID: 1}, out)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, "/x", got.Path)
	assert.Equal(t, reflect.TypeFor[item](), got.ResponseModel)
}

func TestAdaptOutputMergesMetadata(t *testing.T) {
	var got RouteParams
	s := recordingSchema{params: &got}
	params := RouteParams{StatusCode: http.StatusOK, Description: "declared", Extra: map[string]any{"keep": true}}

	out := AdaptOutput(context.Background(), Respond(item{ID: 9}, Metadata{
		MetaStatusCode:  http.StatusAccepted,
		MetaDescription: "queued",
		MetaSummary:     "summary",
		"custom":        "value",
	}), s, reflect.TypeFor[item](), params)

	assert.Equal(t, item{ID: 9}, out)
	assert.Equal(t, http.StatusAccepted, got.StatusCode)
	assert.Equal(t, "queued", got.Description)
	assert.Equal(t, "summary", got.Summary)
	assert.Equal(t, map[string]any{"keep": true, "custom": "value"}, got.Extra)
	assert.Equal(t, map[string]any{"keep": true}, params.Extra)
}

func TestResponseModelLooksThroughCarriers(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[item](), ResponseModel(reflect.TypeFor[Reply[item]]()))
	assert.Equal(t, reflect.TypeFor[item](), ResponseModel(reflect.TypeFor[*Reply[item]]()))
	assert.Equal(t, reflect.TypeFor[item](), ResponseModel(reflect.TypeFor[*Future[item]]()))
	assert.Equal(t, reflect.TypeFor[item](), ResponseModel(reflect.TypeFor[*Future[Reply[item]]]()))
	assert.Equal(t, reflect.TypeFor[any](), ResponseModel(reflect.TypeFor[any]()))
	assert.Equal(t, reflect.TypeFor[item](), ResponseModel(reflect.TypeFor[item]()))
}

func TestFutureAwait(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (item, error) {
		return item{ID: 4}, nil
	})

	v, err := f.Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, item{ID: 4}, v)
}

func TestFutureAwaitHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	f := Go(context.Background(), func(context.Context) (item, error) {
		<-release
		return item{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuturePanicBecomesError(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (item, error) {
		panic("boom")
	})

	_, err := f.Await(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestResolve(t *testing.T) {
	want := errors.New("failed")
	f := Go(context.Background(), func(context.Context) (int, error) { return 0, want })

	_, err := resolve(context.Background(), f)
	assert.ErrorIs(t, err, want)

	v, err := resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	var nilFuture *Future[int]
	v, err = resolve(context.Background(), nilFuture)
	require.NoError(t, err)
	assert.Nil(t, v)
}
