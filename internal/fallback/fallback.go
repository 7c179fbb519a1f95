// Package fallback calls a generative model to interpret commands the local
// rule cascade could not. It is the only asynchronous, timeout-bound piece of
// the system and is invoked strictly after the local interpreter returns
// no-match.
package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/kmoutsos/triphub/internal/domain"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// systemPrompt instructs the model to emit delta updates only.
const systemPrompt = `Act as TripHub Assistant. Your goal is to update the trip state based on user commands.
Return ONLY a valid JSON object with fields "summary" (string) and "trips" (array of partial trip objects).

CRITICAL RULES:
1. DELTA UPDATES: Return ONLY the items that are NEW or MODIFIED.
2. TRIP ID: Always use the exact id provided in context.
3. EXPENSES: When adding expenses, split cost across travellers.
4. MAPPING: Flights/Stays/Transit go to their respective arrays; visits and activities go to itinerary days.
5. FORMATTING: Use YYYY-MM-DD for dates and HH:MM 24-hour times.
6. NO CONVERSATION: Do not include any text outside the JSON.`

// Client is the remote interpreter. Each Interpret call is bounded by
// Timeout and classifies failures into the domain's remote error taxonomy.
type Client struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New constructs a Client for the given API key. A zero timeout defaults to
// 30 seconds, matching what interactive callers tolerate.
func New(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{APIKey: apiKey, Model: DefaultModel, Timeout: timeout}
}

// tripContext is the reduced snapshot sent to the model: enough to resolve
// names and dates without shipping the whole trip.
type tripContext struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Travellers         []contextPerson `json:"travellers"`
	StartDate          string          `json:"startDate,omitempty"`
	EndDate            string          `json:"endDate,omitempty"`
	PreferredCurrency  string          `json:"preferredCurrency,omitempty"`
	RecentItemsSummary string          `json:"recentItemsSummary,omitempty"`
}

type contextPerson struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Interpret asks the model for a delta update for command against trip.
// Failures are mapped to domain.ErrRemoteTimeout, domain.ErrRemoteQuota, or
// domain.ErrRemoteFailure so callers can surface distinct messages.
func (c *Client) Interpret(ctx context.Context, cmd string, trip *domain.Trip) (domain.DeltaUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      c.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return domain.DeltaUpdate{}, fmt.Errorf("fallback.Client.Interpret: create client: %w: %w", domain.ErrRemoteFailure, err)
	}

	payload, err := json.Marshal(BuildContext(trip))
	if err != nil {
		return domain.DeltaUpdate{}, fmt.Errorf("fallback.Client.Interpret: marshal context: %w: %w", domain.ErrRemoteFailure, err)
	}

	temperature := float32(0.1)
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: "ACTIVE_TRIP_CONTEXT: " + string(payload)},
				{Text: "COMMAND: " + cmd},
			},
		},
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
		Temperature:       &temperature,
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	resp, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return domain.DeltaUpdate{}, fmt.Errorf("fallback.Client.Interpret: %w", Classify(err))
	}

	raw := resp.Text()
	if raw == "" {
		return domain.DeltaUpdate{}, fmt.Errorf("fallback.Client.Interpret: empty response: %w", domain.ErrRemoteFailure)
	}

	var upd domain.DeltaUpdate
	if err := json.Unmarshal([]byte(CleanModelJSON(raw)), &upd); err != nil {
		return domain.DeltaUpdate{}, fmt.Errorf("fallback.Client.Interpret: unmarshal response: %w: %w", domain.ErrRemoteFailure, err)
	}
	return upd, nil
}

// BuildContext reduces a trip to the context payload sent with each request.
func BuildContext(trip *domain.Trip) tripContext {
	tc := tripContext{
		ID:                trip.ID,
		Name:              trip.Name,
		StartDate:         trip.StartDate,
		EndDate:           trip.EndDate,
		PreferredCurrency: trip.PreferredCurrency,
	}
	for _, t := range trip.Travellers {
		tc.Travellers = append(tc.Travellers, contextPerson{ID: t.ID, Name: t.Name})
	}

	var recent []string
	expenses := trip.Expenses
	if len(expenses) > 3 {
		expenses = expenses[len(expenses)-3:]
	}
	for _, e := range expenses {
		recent = append(recent, fmt.Sprintf("Expense: %s $%.2f", e.Title, e.Amount))
	}
	for _, f := range trip.Flights {
		recent = append(recent, fmt.Sprintf("Flight: %s->%s", f.DepartureAirport, f.ArrivalAirport))
	}
	tc.RecentItemsSummary = strings.Join(recent, "; ")
	return tc
}

// Classify maps a transport/model error onto the remote error taxonomy:
// deadline → timeout, 429/RESOURCE_EXHAUSTED/quota → quota, else generic.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrRemoteTimeout, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota") {
		return fmt.Errorf("%w: %w", domain.ErrRemoteQuota, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrRemoteFailure, err)
}

// CleanModelJSON strips Markdown code fences from a model response that
// ignored the JSON-only instruction.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
