package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"nextlevel/academy-app/internal/config"
	"nextlevel/academy-app/internal/domain"
)

const defaultGeminiTimeout = 60 * time.Second

// GeminiClient implements PlanProvider against the Gemini REST API, asking
// for schema-constrained JSON so responses decode directly into domain
// types. Rate-limited calls are retried per the configured policy; every
// other failure class propagates immediately.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	retry      RetryPolicy
}

// NewGeminiClient builds a client from configuration. The API key is the
// only mandatory field.
func NewGeminiClient(cfg config.GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}

	return &GeminiClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		retry:      DefaultRetryPolicy(),
	}, nil
}

// --- Wire types ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate posts one generateContent request and returns the first
// candidate's concatenated text.
func (c *GeminiClient) generate(ctx context.Context, req geminiRequest) (string, error) {
	var text string
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		text, err = c.generateOnce(ctx, req)
		return err
	})
	return text, err
}

func (c *GeminiClient) generateOnce(ctx context.Context, req geminiRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	var out strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("%w: empty candidate text", ErrMalformedResponse)
	}
	return out.String(), nil
}

// --- Response schemas ---

func statsSchema() map[string]any {
	props := map[string]any{}
	for _, f := range []string{"technical", "physical", "tactical", "mental", "speed", "stamina"} {
		props[f] = map[string]any{"type": "NUMBER"}
	}
	return map[string]any{
		"type":       "OBJECT",
		"properties": props,
		"required":   []string{"technical", "physical", "tactical", "mental", "speed", "stamina"},
	}
}

func assessmentSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"stats":      statsSchema(),
			"level":      map[string]any{"type": "NUMBER"},
			"evaluation": map[string]any{"type": "STRING"},
		},
		"required": []string{"stats", "level", "evaluation"},
	}
}

func planSchema() map[string]any {
	exerciseSchema := map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"phase": map[string]any{
				"type": "STRING",
				"enum": []string{
					string(domain.PhaseWarmUp),
					string(domain.PhaseMain),
					string(domain.PhaseSupplementary),
					string(domain.PhaseConditioning),
				},
			},
			"name":         map[string]any{"type": "STRING"},
			"reps":         map[string]any{"type": "STRING"},
			"description":  map[string]any{"type": "STRING"},
			"youtubeQuery": map[string]any{"type": "STRING"},
		},
		"required": []string{"phase", "name", "reps", "description", "youtubeQuery"},
	}
	sessionSchema := map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"id":    map[string]any{"type": "STRING"},
			"title": map[string]any{"type": "STRING"},
			"type": map[string]any{
				"type": "STRING",
				"enum": []string{
					string(domain.SessionTechnical),
					string(domain.SessionPhysical),
					string(domain.SessionRecovery),
				},
			},
			"duration":   map[string]any{"type": "NUMBER"},
			"difficulty": map[string]any{"type": "NUMBER"},
			"exercises":  map[string]any{"type": "ARRAY", "items": exerciseSchema},
		},
		"required": []string{"id", "title", "type", "duration", "difficulty", "exercises"},
	}
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"updatedStats": statsSchema(),
			"evaluation":   map[string]any{"type": "STRING"},
			"sessions":     map[string]any{"type": "ARRAY", "items": sessionSchema},
		},
		"required": []string{"updatedStats", "evaluation", "sessions"},
	}
}

// --- Decoded payloads (numbers arrive as floats) ---

type statsPayload struct {
	Technical float64 `json:"technical"`
	Physical  float64 `json:"physical"`
	Tactical  float64 `json:"tactical"`
	Mental    float64 `json:"mental"`
	Speed     float64 `json:"speed"`
	Stamina   float64 `json:"stamina"`
}

func (p statsPayload) toDomain() domain.UserStats {
	round := func(v float64) int { return int(math.Round(v)) }
	return domain.UserStats{
		Technical: round(p.Technical),
		Physical:  round(p.Physical),
		Tactical:  round(p.Tactical),
		Mental:    round(p.Mental),
		Speed:     round(p.Speed),
		Stamina:   round(p.Stamina),
	}
}

type assessmentPayload struct {
	Stats      statsPayload `json:"stats"`
	Level      float64      `json:"level"`
	Evaluation string       `json:"evaluation"`
}

type exercisePayload struct {
	Phase        string `json:"phase"`
	Name         string `json:"name"`
	Reps         string `json:"reps"`
	Description  string `json:"description"`
	YoutubeQuery string `json:"youtubeQuery"`
}

type sessionPayload struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Type       string            `json:"type"`
	Duration   float64           `json:"duration"`
	Difficulty float64           `json:"difficulty"`
	Exercises  []exercisePayload `json:"exercises"`
}

type planPayload struct {
	UpdatedStats statsPayload     `json:"updatedStats"`
	Evaluation   string           `json:"evaluation"`
	Sessions     []sessionPayload `json:"sessions"`
}

// Assess implements PlanProvider.
func (c *GeminiClient) Assess(ctx context.Context, draft domain.OnboardingDraft, results domain.AssessmentResults) (domain.AssessmentReport, error) {
	prompt := fmt.Sprintf(
		"Analyze a %d year old football player, position %s, career goal %s.\n"+
			"Field tests: 100m sprint %.1fs, juggling %d touches, dribble course %.1fs, plank %ds.\n"+
			"Self-reported weaknesses: %s.\n"+
			"Return JSON: stats (each 0-100), level (1-100), evaluation (short scout report).",
		draft.Age, draft.Position, draft.Goal,
		results.Sprint100m, results.Juggling, results.Dribbling, results.Plank,
		draft.Weaknesses,
	)

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   assessmentSchema(),
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return domain.AssessmentReport{}, err
	}

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return domain.AssessmentReport{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return domain.AssessmentReport{
		Stats:      payload.Stats.toDomain(),
		Level:      int(math.Round(payload.Level)),
		Evaluation: payload.Evaluation,
	}, nil
}

// GeneratePlan implements PlanProvider. The returned sessions are raw
// provider output; callers apply domain.ReconcileSessions before anything
// touches the profile.
func (c *GeminiClient) GeneratePlan(ctx context.Context, profile domain.PlayerProfile, feedback string) (domain.PlanResult, error) {
	minutes := domain.SessionMinutes(profile.HoursPerWeek, profile.SessionsPerWeek)
	prompt := fmt.Sprintf(
		"NextLevel Academy coaching staff. Create the week %d training plan for %s (%s, goal: %s).\n"+
			"Requirements: %d sessions, %d minutes each. Focus areas: %s.",
		profile.CurrentWeek, profile.Name, profile.Position, profile.Goal,
		profile.SessionsPerWeek, minutes, profile.Weaknesses,
	)
	if feedback != "" {
		prompt += fmt.Sprintf("\nPlayer feedback on last week: %s.", feedback)
	}
	prompt += "\nReturn JSON."

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   planSchema(),
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return domain.PlanResult{}, err
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return domain.PlanResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	sessions := make([]domain.TrainingSession, len(payload.Sessions))
	for i, s := range payload.Sessions {
		exercises := make([]domain.Exercise, len(s.Exercises))
		for j, ex := range s.Exercises {
			exercises[j] = domain.Exercise{
				Phase:        domain.Phase(ex.Phase),
				Name:         ex.Name,
				Reps:         ex.Reps,
				Description:  ex.Description,
				YoutubeQuery: ex.YoutubeQuery,
			}
		}
		sessions[i] = domain.TrainingSession{
			ID:         s.ID,
			Title:      s.Title,
			Type:       domain.SessionType(s.Type),
			Duration:   int(math.Round(s.Duration)),
			Difficulty: int(math.Round(s.Difficulty)),
			Exercises:  exercises,
		}
	}

	return domain.PlanResult{
		Sessions:     sessions,
		UpdatedStats: payload.UpdatedStats.toDomain(),
		Evaluation:   payload.Evaluation,
	}, nil
}

// Chat implements PlanProvider.
func (c *GeminiClient) Chat(ctx context.Context, profile domain.PlayerProfile, history []domain.ChatMessage, message string) (string, error) {
	system := fmt.Sprintf(
		"You are Coach NextLevel, advising %s (%s, week %d). Answer football training questions, extremely short and professional.",
		profile.Name, profile.Position, profile.CurrentWeek,
	)

	contents := make([]geminiContent, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, geminiContent{
			Role:  string(m.Role),
			Parts: []geminiPart{{Text: m.Text}},
		})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	req := geminiRequest{
		Contents:          contents,
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
	}

	return c.generate(ctx, req)
}
