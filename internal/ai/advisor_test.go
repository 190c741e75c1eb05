package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"unitask-api/internal/models"

	"github.com/stretchr/testify/require"
)

// fakeGemini returns a server that always replies with the given text as the
// single candidate part.
func fakeGemini(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": reply}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testClient(srv *httptest.Server) *Client {
	c := NewClient("test-key", "gemini-2.5-flash")
	c.BaseURL = srv.URL
	return c
}

func TestEstimateDifficulty_ParsesFencedReply(t *testing.T) {
	srv := fakeGemini(t, "```json\n{\"difficulty\": \"Medium\", \"emoji\": \"🛠️\", \"estimatedHours\": 6}\n```")
	defer srv.Close()

	est, err := testClient(srv).EstimateDifficulty(context.Background(), "Build login page", "")
	require.NoError(t, err)
	require.Equal(t, "Medium", est.Difficulty)
	require.Equal(t, "🛠️", est.Emoji)
	require.EqualValues(t, 6, est.EstimatedHours)
}

func TestEstimateDifficulty_RejectsUnknownLevel(t *testing.T) {
	srv := fakeGemini(t, `{"difficulty": "Impossible", "emoji": "x", "estimatedHours": 1}`)
	defer srv.Close()

	_, err := testClient(srv).EstimateDifficulty(context.Background(), "Task", "")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAnalyzeProject_ParsesPlan(t *testing.T) {
	srv := fakeGemini(t, `Here you go: [{"title": "Set up repo", "description": "init", "type": "Task", "estimatedDays": 1}]`)
	defer srv.Close()

	plan, err := testClient(srv).AnalyzeProject(context.Background(), "Build a tracker")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	require.Equal(t, "Set up repo", plan[0].Title)
}

func TestSuggestAssignments_UnknownMemberIsMalformed(t *testing.T) {
	srv := fakeGemini(t, `{"Set up repo": "u-999"}`)
	defer srv.Close()

	members := []models.User{{ID: "u-1", Name: "Alice"}}
	_, err := testClient(srv).SuggestAssignments(context.Background(), []PlannedTask{{Title: "Set up repo"}}, members)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestVerifySubmission_Verdict(t *testing.T) {
	srv := fakeGemini(t, `{"verdict": "PASS", "feedback": "All requirements met", "suggestions": ""}`)
	defer srv.Close()

	task := &models.Task{Title: "Write docs", Description: "Document the API"}
	v, err := testClient(srv).VerifySubmission(context.Background(), task, "Docs are in the README")
	require.NoError(t, err)
	require.Equal(t, "PASS", v.Verdict)
	require.Equal(t, "All requirements met", v.Feedback)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", "gemini-2.5-flash")
	_, err := c.EstimateDifficulty(context.Background(), "Task", "")
	require.ErrorIs(t, err, ErrNotConfigured)
}
