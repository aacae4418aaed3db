package blob_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpcarvalho/divvy/internal/blob"
)

func TestHTTPStore_Probe(t *testing.T) {
	var gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method

		switch r.URL.Path {
		case "/ok.jpg":
			w.WriteHeader(http.StatusOK)
		case "/gone.jpg":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	store := blob.NewHTTPStore(5 * time.Second)

	err := store.Probe(context.Background(), srv.URL+"/ok.jpg")
	assert.NoError(t, err)
	assert.Equal(t, http.MethodHead, gotMethod)

	err = store.Probe(context.Background(), srv.URL+"/gone.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)

	err = store.Probe(context.Background(), srv.URL+"/broken.jpg")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, blob.ErrNotFound)
}

func TestHTTPStore_Delete(t *testing.T) {
	var gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method

		if r.URL.Path == "/gone.jpg" {
			w.WriteHeader(http.StatusGone)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := blob.NewHTTPStore(5 * time.Second)

	err := store.Delete(context.Background(), srv.URL+"/doc.jpg")
	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)

	err = store.Delete(context.Background(), srv.URL+"/gone.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestHTTPStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // shut down before probing

	store := blob.NewHTTPStore(time.Second)

	err := store.Probe(context.Background(), srv.URL+"/doc.jpg")
	assert.Error(t, err)
}
