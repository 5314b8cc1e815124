package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"maidhub/config"
	ierr "maidhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextGenerationService_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Len(t, req.Messages, 2)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Two bedroom flat.  "}}]}`))
	}))
	defer server.Close()

	service := NewTextGenerationService(config.Config{AIAPIURL: server.URL + "/", AIAPIKey: "key", AIModel: "test-model"})

	text, err := service.Generate(context.Background(), TextPrompt{System: "s", User: "u"})
	require.NoError(t, err)
	assert.Equal(t, "Two bedroom flat.", text)
}

func TestTextGenerationService_Failures(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewTextGenerationService(config.Config{}).Generate(context.Background(), TextPrompt{})
		assert.True(t, ierr.Is(err, ierr.ErrUpstream))
	})

	t.Run("client error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewTextGenerationService(config.Config{AIAPIURL: server.URL}).
			Generate(context.Background(), TextPrompt{})
		assert.True(t, ierr.Is(err, ierr.ErrUpstream))
		assert.Equal(t, "Text generation is currently unavailable", ierr.Hint(err))
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := NewTextGenerationService(config.Config{AIAPIURL: server.URL}).
			Generate(context.Background(), TextPrompt{})
		assert.True(t, ierr.Is(err, ierr.ErrUpstream))
	})
}

func TestPlacesService_Autocomplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Ilica", r.URL.Query().Get("input"))
		assert.Equal(t, "country:hr", r.URL.Query().Get("components"))
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[{"description":"Ilica, Zagreb","place_id":"abc"}]}`))
	}))
	defer server.Close()

	service := NewPlacesService(config.Config{PlacesAPIURL: server.URL, PlacesCountry: "HR"}, nil)

	predictions, err := service.Autocomplete(context.Background(), " Ilica ")
	require.NoError(t, err)
	assert.Equal(t, []PlacePrediction{{Description: "Ilica, Zagreb", PlaceID: "abc"}}, predictions)

	empty, err := service.Autocomplete(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPlacesService_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","predictions":[]}`))
	}))
	defer server.Close()

	_, err := NewPlacesService(config.Config{PlacesAPIURL: server.URL}, nil).Autocomplete(context.Background(), "x")
	assert.True(t, ierr.Is(err, ierr.ErrUpstream))
}
