package reply

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAIGeneratorRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Contains(t, req.Messages[1].Content, "Ada")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  Keep going, Ada!  "}},
			},
		})
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("test-key", srv.URL, "test-model")
	out, err := g.Generate(context.Background(), "hi", Context{DisplayName: "Ada", Level: 2, StreakDays: 3})
	require.NoError(t, err)
	require.Equal(t, "Keep going, Ada!", out)
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	t.Run("no api key", func(t *testing.T) {
		g := NewOpenAIGenerator("", "", "")
		_, err := g.Generate(context.Background(), "hi", Context{})
		require.Error(t, err)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		g := NewOpenAIGenerator("test-key", srv.URL, "")
		_, err := g.Generate(context.Background(), "hi", Context{})
		require.ErrorContains(t, err, "status 429")
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		g := NewOpenAIGenerator("test-key", srv.URL, "")
		_, err := g.Generate(context.Background(), "hi", Context{})
		require.ErrorContains(t, err, "empty choices")
	})
}
