package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRepoCommitStats_MapsLoginsLowercase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/capstone/stats/contributors", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"total": 42, "author": map[string]string{"login": "AliceDev"}},
			{"total": 7, "author": map[string]string{"login": "boblee"}},
		})
	}))
	defer srv.Close()

	c := NewClient("")
	c.BaseURL = srv.URL

	stats, err := c.GetRepoCommitStats(context.Background(), "acme/capstone")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"alicedev": 42, "boblee": 7}, stats)
}

func TestGetRepoCommitStats_StillComputing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient("")
	c.BaseURL = srv.URL

	stats, err := c.GetRepoCommitStats(context.Background(), "acme/capstone")
	require.NoError(t, err)
	require.Nil(t, stats)
}

func TestGetRepoCommitStats_FailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("")
	c.BaseURL = srv.URL

	stats, err := c.GetRepoCommitStats(context.Background(), "acme/missing")
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Empty(t, stats)
}

func TestGetRepoCommitStats_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token secret-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer srv.Close()

	c := NewClient("secret-token")
	c.BaseURL = srv.URL

	_, err := c.GetRepoCommitStats(context.Background(), "acme/capstone")
	require.NoError(t, err)
}
