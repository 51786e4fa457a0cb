package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"memorybank/internal/models"
)

const (
	openAIAPIURL = "https://api.openai.com/v1/chat/completions"
	openAIModel  = "gpt-4o"
)

// tagPrompt asks the model for the five labeled lines ParseTagResponse scans
// for. The emoji list must pair positionally with the emotion list.
const tagPrompt = `Analyze this image comprehensively and identify ALL emotions present. Look at:
- Facial expressions of people
- Body language and postures
- Scene atmosphere and mood
- Color tones and lighting
- Context and setting
- Overall emotional resonance

Provide:
1. A brief, descriptive caption (1-2 sentences) describing what's in the image
2. A comprehensive list of ALL emotions you detect (can be multiple emotions, be specific)
   Examples: joyful, melancholic, serene, anxious, euphoric, nostalgic, contemplative, energetic, peaceful, tense, playful, somber, romantic, dramatic, etc.
   Don't restrict yourself - use any emotion words that accurately describe what you see
3. For EACH emotion you detect, provide the most appropriate emoji that represents that emotion
4. The PRIMARY/dominant emotion from your list (the most prominent one)
5. A confidence score (0.0 to 1.0) for the primary emotion classification

Respond in this exact format:
CAPTION: [your caption here]
EMOTIONS: [comma-separated list of all detected emotions, e.g., "joyful, energetic, carefree, warm"]
EMOTION_EMOJIS: [comma-separated list of emojis corresponding to each emotion in the same order, e.g., "😄,⚡,😊,❤️"]
PRIMARY_EMOTION: [the most prominent emotion from your list]
CONFIDENCE: [number between 0.0 and 1.0]

Important: The number of emojis must match the number of emotions, and they must be in the same order.`

// OpenAIClient classifies photos with the OpenAI vision chat API.
type OpenAIClient struct {
	apiKey       string
	maxImageSize int
	httpClient   *http.Client
}

func NewOpenAIClient(config *Config) *OpenAIClient {
	maxSize := config.MaxImageSize
	if maxSize == 0 {
		maxSize = 512
	}
	return &OpenAIClient{
		apiKey:       config.OpenAIAPIKey,
		maxImageSize: maxSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *OpenAIClient) Classify(ctx context.Context, imageData []byte) (*models.TagResult, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(downscaleImage(imageData, c.maxImageSize))

	reqBody := openAIRequest{
		Model:       openAIModel,
		MaxTokens:   500,
		Temperature: 0.4,
		Messages: []openAIMessage{
			{
				Role: "user",
				Content: []openAIContentPart{
					{
						Type: "text",
						Text: tagPrompt,
					},
					{
						Type: "image_url",
						ImageURL: &openAIImageURL{
							URL: fmt.Sprintf("data:image/jpeg;base64,%s", imageBase64),
						},
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openAIAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if openAIResp.Error != nil {
		return nil, fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 || openAIResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	return ParseTagResponse(openAIResp.Choices[0].Message.Content), nil
}
