// Package gemini wraps the Google Gemini API behind the small gateway surface
// the design flows need: image generation, free text, and grounded answers
// with citations. Transient failures are retried with exponential backoff;
// everything else surfaces to the caller untouched.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gai "google.golang.org/genai"
)

var (
	// ErrGenerationBlocked means the provider's safety filter rejected the
	// prompt. The user has to rephrase; retrying is pointless.
	ErrGenerationBlocked = errors.New("generation blocked by safety filter")

	// ErrNoImageProduced means the model answered with text where an image
	// was expected.
	ErrNoImageProduced = errors.New("model returned no image data")
)

// retryBackoff is the wait schedule for transient failures. Length bounds the
// retry count: three retries after the initial attempt.
var retryBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Image is an inline image payload exchanged with the model.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client is the Gemini-backed AI gateway. Image and text flows use the
// generative-ai-go SDK; grounded search goes through google.golang.org/genai,
// which carries the GoogleSearch tool and grounding metadata.
type Client struct {
	genai      *genai.Client
	search     *gai.Client
	textModel  string
	imageModel string
}

// New creates a gateway client. The API key is required; model names fall
// back to sensible defaults when empty.
func New(ctx context.Context, apiKey, textModel, imageModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if textModel == "" {
		textModel = "gemini-1.5-flash"
	}
	if imageModel == "" {
		imageModel = "gemini-2.0-flash-exp"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	search, err := gai.NewClient(ctx, &gai.ClientConfig{
		APIKey:  apiKey,
		Backend: gai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini search client: %w", err)
	}

	return &Client{
		genai:      client,
		search:     search,
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.genai.Close()
}

// GenerateImage renders prompt (plus optional reference images) into a single
// image. Returns ErrGenerationBlocked on safety rejection, ErrNoImageProduced
// when only text comes back.
func (c *Client) GenerateImage(ctx context.Context, prompt string, refs []Image) (*Image, error) {
	model := c.genai.GenerativeModel(c.imageModel)

	resp, err := withRetry(ctx, func() (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, buildParts(prompt, refs)...)
	})
	if err != nil {
		return nil, imageError(err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && strings.HasPrefix(blob.MIMEType, "image/") {
				return &Image{MIMEType: blob.MIMEType, Data: blob.Data}, nil
			}
		}
	}

	return nil, ErrNoImageProduced
}

// GenerateText answers prompt (plus optional reference images) with plain
// text. Safety blocks are not distinguished here; any empty reply is an
// error.
func (c *Client) GenerateText(ctx context.Context, prompt string, refs []Image) (string, error) {
	model := c.genai.GenerativeModel(c.textModel)

	resp, err := withRetry(ctx, func() (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, buildParts(prompt, refs)...)
	})
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", errors.New("empty content returned from model")
	}
	return text, nil
}

// imageError maps a failed image call onto the gateway taxonomy. The SDK
// surfaces safety rejections as *genai.BlockedError rather than a response,
// so the conversion happens on the error path.
func imageError(err error) error {
	var blockErr *genai.BlockedError
	if errors.As(err, &blockErr) {
		return ErrGenerationBlocked
	}
	return fmt.Errorf("image generation failed: %w", err)
}

// withRetry runs call, retrying transient failures per retryBackoff.
func withRetry[T any](ctx context.Context, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := call()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt >= len(retryBackoff) || !isTransient(err) {
			return zero, lastErr
		}

		wait := retryBackoff[attempt]
		log.Printf("⚠️  Gemini call failed (attempt %d, retrying in %v): %v", attempt+1, wait, err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// isTransient reports whether err is worth retrying: rate limits, server
// errors, and network timeouts. Safety blocks and bad requests are not.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	var gaiErr gai.APIError
	if errors.As(err, &gaiErr) {
		return gaiErr.Code == 429 || gaiErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func buildParts(prompt string, refs []Image) []genai.Part {
	parts := []genai.Part{genai.Text(prompt)}
	for _, ref := range refs {
		parts = append(parts, genai.Blob{MIMEType: ref.MIMEType, Data: ref.Data})
	}
	return parts
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
