package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gai "google.golang.org/genai"

	"marcenapp/internal/models"
)

// GenerateGroundedText answers query using the GoogleSearch tool and returns
// the web sources backing the answer. Location, when given, is folded into
// the query as a proximity hint.
func (c *Client) GenerateGroundedText(ctx context.Context, query string, location *models.Coordinates) (string, []models.Citation, error) {
	if location != nil {
		query = fmt.Sprintf("%s (próximo de latitude %.4f, longitude %.4f)",
			query, location.Latitude, location.Longitude)
	}

	config := &gai.GenerateContentConfig{
		Tools: []*gai.Tool{
			{GoogleSearch: &gai.GoogleSearch{}},
		},
	}

	resp, err := withRetry(ctx, func() (*gai.GenerateContentResponse, error) {
		return c.search.Models.GenerateContent(ctx, c.textModel, gai.Text(query), config)
	})
	if err != nil {
		return "", nil, fmt.Errorf("grounded generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", nil, errors.New("empty content returned from model")
	}

	return text, groundingCitations(resp), nil
}

// groundingCitations collects the web sources from the grounding metadata.
// Chunks without a web URI are skipped.
func groundingCitations(resp *gai.GenerateContentResponse) []models.Citation {
	citations := []models.Citation{}
	for _, candidate := range resp.Candidates {
		if candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			citations = append(citations, models.Citation{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return citations
}
