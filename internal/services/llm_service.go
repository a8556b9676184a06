package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/jobhub/jobhub/internal/models"
)

// LLMService extracts structured profiles from resume text with Gemini.
// Optional: the resume service falls back to the rule-based parser when this
// is nil or the call fails.
type LLMService struct {
	Client llms.Model
}

// NewLLMService returns nil when no API key is configured.
func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	if apiKey == "" {
		return nil, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const resumeExtractionPrompt = `
You are an expert Resume Data Extraction Agent. Analyze the resume text below
and extract structured data.

### INSTRUCTIONS:
1. Extract the fields strictly from the text.
2. Format the output as valid JSON only. Do not wrap it in markdown code blocks.
3. If a piece of information is missing, set the value to null. Do not guess.

### OUTPUT SCHEMA:
{
    "name": "Full name or null",
    "email": "Email address or null",
    "phone": "Phone number or null",
    "location": "City, State or null",
    "linkedin": "LinkedIn profile URL or null",
    "github": "GitHub profile URL or null",
    "portfolio": "Personal website URL or null",
    "summary": "Professional summary, one or two sentences, or null",
    "skills": ["Array", "of", "technical", "skills"],
    "education": [{"institution": "...", "degree": "... or null", "field": "... or null", "end_date": "... or null"}],
    "experience": [{"company": "...", "title": "... or null", "start_date": "... or null", "end_date": "... or null", "is_current": false, "achievements": ["..."]}],
    "projects": [{"name": "...", "description": "... or null", "technologies": ["..."]}],
    "certifications": [{"name": "...", "issuer": "... or null"}],
    "languages": ["Array", "of", "spoken", "languages"]
}

### RESUME TEXT:
%s
`

// ExtractResumeProfile sends the resume text to the model and decodes the
// JSON answer.
func (s *LLMService) ExtractResumeProfile(ctx context.Context, text string) (*models.ParsedResume, error) {
	if len(text) > 20000 {
		text = text[:20000]
	}

	prompt := fmt.Sprintf(resumeExtractionPrompt, text)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var parsed models.ParsedResume
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &parsed); err != nil {
		log.Warn().Err(err).Msg("resume extraction returned malformed JSON")
		return nil, fmt.Errorf("decode llm response: %w", err)
	}
	return &parsed, nil
}

// stripCodeFence removes markdown fences the model sometimes adds despite
// the instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
