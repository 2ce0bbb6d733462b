package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) string {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	raw, _ := json.Marshal(body)
	return string(raw)
}

func TestGeminiClientExtract(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply(validPayload)))
	}))
	defer server.Close()

	client, err := NewGeminiClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	result, err := client.Extract(context.Background(), Input{
		Text:          "lunch with Sam at noon on June 2nd",
		ReferenceTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		TimeZone:      "UTC",
	})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Lunch with Sam", result.Events[0].Title)

	assert.Equal(t, "/v1beta/models/"+DefaultModel+":generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Contains(t, gotReq.SystemInstruction.Parts[0].Text, "2024-06-01T09:00:00Z")
	assert.Equal(t, "application/json", gotReq.GenerationConfig["responseMimeType"])
}

func TestGeminiClientSendsAttachmentInline(t *testing.T) {
	var gotReq geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(geminiReply(validPayload)))
	}))
	defer server.Close()

	client, err := NewGeminiClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), Input{
		Attachment: &Attachment{MIMEType: "image/png", Base64Data: "aGVsbG8="},
	})
	require.NoError(t, err)

	require.Len(t, gotReq.Contents, 1)
	require.NotEmpty(t, gotReq.Contents[0].Parts)
	inline := gotReq.Contents[0].Parts[0].InlineData
	require.NotNil(t, inline)
	assert.Equal(t, "image/png", inline.MIMEType)
	assert.Equal(t, "aGVsbG8=", inline.Data)
}

func TestGeminiClientRejectsEmptyInput(t *testing.T) {
	client, err := NewGeminiClient("test-key")
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), Input{})
	require.Error(t, err)
}

func TestGeminiClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), Input{Text: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGeminiClientMalformedCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply("this is not the agreed shape")))
	}))
	defer server.Close()

	client, err := NewGeminiClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), Input{Text: "anything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient("")
	require.Error(t, err)
}
