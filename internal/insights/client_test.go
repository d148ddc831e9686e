package insights

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

const reportJSON = `{
  "financialHealth": {"score": 72, "summary": "Solid"},
  "spendingForecast": {"next30Days": 1450.5, "comment": "Stable"},
  "goalEstimates": [{"goalTitle": "Trip", "estimatedCompletionDate": "2025-09-01"}],
  "recommendations": [{"title": "Cook more", "description": "Restaurants are 20% of spend"}]
}`

func messagesReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"model":       "test-model",
		"stop_reason": "end_turn",
		"content":     []map[string]string{{"type": "text", "text": text}},
	})
	return string(b)
}

func testDoc() model.Document {
	doc := model.NewDocument()
	doc.Income = []model.Income{
		{ID: "a", Source: "Salary", Amount: decimal.NewFromInt(1000)},
		{ID: "b", Source: "Secret", Amount: decimal.NewFromInt(5), Hidden: true},
	}
	doc.Goals = []model.Goal{{ID: "g", Title: "Trip", TargetAmount: decimal.NewFromInt(500)}}
	return doc
}

func TestGenerate(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" || r.Header.Get("anthropic-version") != apiVersion {
			t.Errorf("headers = %v", r.Header)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = io.WriteString(w, messagesReply("Here you go:\n```json\n"+reportJSON+"\n```"))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	now := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	r, err := c.Generate(context.Background(), NewSnapshot(testDoc()), now)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !r.FinancialHealth.Score.Equal(decimal.NewFromInt(72)) {
		t.Fatalf("score = %s", r.FinancialHealth.Score)
	}
	if len(r.GoalEstimates) != 1 || r.GoalEstimates[0].GoalTitle != "Trip" {
		t.Fatalf("goal estimates = %+v", r.GoalEstimates)
	}
	if r.Model != "test-model" || !r.GeneratedAt.Equal(now) {
		t.Fatalf("meta = %q %v", r.Model, r.GeneratedAt)
	}

	if len(gotReq.Messages) != 1 {
		t.Fatalf("messages = %d", len(gotReq.Messages))
	}
	prompt := gotReq.Messages[0].Content
	if !strings.Contains(prompt, "August 16, 2025") || !strings.Contains(prompt, "Salary") {
		t.Fatalf("prompt missing data: %s", prompt)
	}
	if strings.Contains(prompt, "Secret") {
		t.Fatal("hidden income leaked into the prompt")
	}
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c, _ := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Generate(context.Background(), Snapshot{}, time.Now())
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Fatalf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestGenerate_ServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"type": "invalid_request_error", "message": "bad model"}}`)
	}))
	defer srv.Close()
	c, _ := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), Snapshot{}, time.Now())
	if err == nil || !strings.Contains(err.Error(), "bad model") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseReport_Malformed(t *testing.T) {
	for name, text := range map[string]string{
		"no json":         "I cannot help with that.",
		"missing section": `{"financialHealth": {"score": 1, "summary": "x"}}`,
		"broken json":     `{"financialHealth": `,
	} {
		if _, err := ParseReport(text); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%s: err = %v, want ErrMalformedResponse", name, err)
		}
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(Config{APIKey: "  "}); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
}
