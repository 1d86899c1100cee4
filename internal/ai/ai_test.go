package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/config"
)

func newServer(t *testing.T, status int, reply string, seen *chatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func client(endpoint, key string) *Client {
	return New(config.AIConfig{
		Endpoint:          endpoint,
		APIKey:            key,
		Model:             "test-model",
		Timeout:           5 * time.Second,
		RequestsPerMinute: 600,
	}, nil, nil)
}

func TestTransformRemote(t *testing.T) {
	var seen chatCompletionRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"  Better text.  "}}]}`, &seen)

	res, err := client(srv.URL, "sk-test").Transform(context.Background(), Improve, "beter txt")
	require.NoError(t, err)
	assert.Equal(t, "Better text.", res.Text)
	assert.Nil(t, res.Detection)

	assert.Equal(t, "test-model", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "beter txt", seen.Messages[1].Content)
}

func TestSummarizeFormatsBullets(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Cats sleep a lot. They purr"}}]}`, nil)

	res, err := client(srv.URL, "sk-test").Transform(context.Background(), Summarize, "long text about cats")
	require.NoError(t, err)
	assert.Equal(t, "• Cats sleep a lot.\n• They purr.", res.Text)
}

func TestTransformErrors(t *testing.T) {
	ctx := context.Background()

	_, err := client("http://127.0.0.1:1", "").Transform(ctx, Complete, "hello")
	assert.True(t, errors.Is(err, ErrNoAPIKey))

	srv := newServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, nil)
	_, err = client(srv.URL, "sk-test").Transform(ctx, Paraphrase, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")

	empty := newServer(t, http.StatusOK, `{"choices":[]}`, nil)
	_, err = client(empty.URL, "sk-test").Transform(ctx, Complete, "hello")
	assert.Error(t, err)

	_, err = client(srv.URL, "sk-test").Transform(ctx, Complete, "   ")
	assert.Error(t, err)

	_, err = client(srv.URL, "sk-test").Transform(ctx, Kind("translate"), "hello")
	assert.Error(t, err)
}

func TestTransformHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client(srv.URL, "sk-test").Transform(ctx, Complete, "hello")
	assert.Error(t, err)
}

func TestLocalKindsNeedNoKey(t *testing.T) {
	c := client("http://127.0.0.1:1", "")

	res, err := c.Transform(context.Background(), Humanize, "It is recommended that one should rest. Furthermore it is late")
	require.NoError(t, err)
	assert.Equal(t, "I recommend that you should rest. Also it's late", res.Text)

	res, err = c.Transform(context.Background(), Detect, "hey so i was thinking maybe we go out later?? idk")
	require.NoError(t, err)
	require.NotNil(t, res.Detection)
	assert.False(t, res.Detection.IsAIGenerated)
	assert.Contains(t, res.Text, "Likely human-written")
}

func TestDetectText(t *testing.T) {
	formal := "It is important to note that the results are significant. Furthermore the data is consistent. " +
		"Moreover the method is robust. Therefore the approach is sound. In conclusion the study is valid."
	d := DetectText(formal)
	assert.True(t, d.IsAIGenerated)
	assert.Greater(t, d.Confidence, 0.5)
	assert.LessOrEqual(t, d.Confidence, 1.0)
	assert.Contains(t, d.Indicators, "Contains common AI/academic phrases")

	assert.Empty(t, DetectText("").Indicators)

	repeated := "the quick brown fox jumps over the quick brown fox jumps over"
	assert.Contains(t, DetectText(repeated).Indicators, "Contains repetitive patterns")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("summarize")
	require.NoError(t, err)
	assert.Equal(t, Summarize, k)
	assert.True(t, k.Remote())
	assert.False(t, Detect.Remote())

	_, err = ParseKind("dance")
	assert.Error(t, err)
}
