package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClientMock(t *testing.T) *OpenAIClient {
	t.Helper()
	client := NewOpenAIClient(&Config{OpenAIAPIKey: "test-key"})
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func chatCompletionBody(content string) string {
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	if err != nil {
		panic(err)
	}
	return string(body)
}

func TestOpenAIClient_Classify_Success(t *testing.T) {
	client := setupClientMock(t)

	content := "CAPTION: A dog running on grass\n" +
		"EMOTIONS: playful, energetic\n" +
		"EMOTION_EMOJIS: 😜,⚡\n" +
		"PRIMARY_EMOTION: playful\n" +
		"CONFIDENCE: 0.92"
	httpmock.RegisterResponder("POST", openAIAPIURL,
		httpmock.NewStringResponder(http.StatusOK, chatCompletionBody(content)))

	result, err := client.Classify(context.Background(), []byte("fake image data"))

	require.NoError(t, err)
	assert.Equal(t, "A dog running on grass", result.Caption)
	assert.Equal(t, "playful", result.PrimaryEmotion)
	assert.Equal(t, []string{"playful", "energetic"}, result.Emotions)
	assert.Equal(t, map[string]string{"playful": "😜", "energetic": "⚡"}, result.EmotionEmojis)
	assert.InDelta(t, 0.92, result.Confidence, 0.001)
}

func TestOpenAIClient_Classify_APIError(t *testing.T) {
	client := setupClientMock(t)

	httpmock.RegisterResponder("POST", openAIAPIURL,
		httpmock.NewStringResponder(http.StatusUnauthorized,
			`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))

	result, err := client.Classify(context.Background(), []byte("fake image data"))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestOpenAIClient_Classify_EmptyChoices(t *testing.T) {
	client := setupClientMock(t)

	httpmock.RegisterResponder("POST", openAIAPIURL,
		httpmock.NewStringResponder(http.StatusOK, `{"choices": []}`))

	result, err := client.Classify(context.Background(), []byte("fake image data"))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "empty response")
}

func TestOpenAIClient_Classify_MalformedJSON(t *testing.T) {
	client := setupClientMock(t)

	httpmock.RegisterResponder("POST", openAIAPIURL,
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	_, err := client.Classify(context.Background(), []byte("fake image data"))

	require.Error(t, err)
}

func TestOpenAIClient_Classify_SendsAuthHeader(t *testing.T) {
	client := setupClientMock(t)

	var gotAuth string
	httpmock.RegisterResponder("POST", openAIAPIURL,
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			return httpmock.NewStringResponse(http.StatusOK, chatCompletionBody("CAPTION: ok")), nil
		})

	_, err := client.Classify(context.Background(), []byte("fake image data"))

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Bearer %s", "test-key"), gotAuth)
}
