package gsa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFederal_TrackedDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/websites", r.URL.Path)
		assert.Equal(t, "va.gov", r.URL.Query().Get("target_url_domain"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":3,"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.IsFederal(context.Background(), "va.gov")
	require.NoError(t, err)
	assert.Equal(t, Federal, got)
}

func TestIsFederal_UntrackedDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.IsFederal(context.Background(), "fultoncountyga.gov")
	require.NoError(t, err)
	assert.Equal(t, NotFederal, got)
}

func TestIsFederal_APIErrorIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.IsFederal(context.Background(), "va.gov")
	assert.Error(t, err)
	assert.Equal(t, Unknown, got)
}

func TestIsFederal_BadJSONIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.IsFederal(context.Background(), "va.gov")
	assert.Error(t, err)
	assert.Equal(t, Unknown, got)
}
