package insights

import (
	"encoding/json"
	"fmt"
	"time"
)

const systemPrompt = `You are a helpful and insightful financial assistant. You analyze a
person's budget and answer with a single JSON object and nothing else.`

const responseShape = `{
  "financialHealth": {"score": <number 0-100>, "summary": "<string>"},
  "spendingForecast": {"next30Days": <number>, "comment": "<string>"},
  "goalEstimates": [{"goalTitle": "<string>", "estimatedCompletionDate": "<YYYY-MM-DD or text>"}],
  "recommendations": [{"title": "<string>", "description": "<string>"}]
}`

func buildPrompt(snap Snapshot, now time.Time) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("insights: encoding snapshot: %w", err)
	}
	return fmt.Sprintf(`The current date is %s.
Analyze the following financial data. Provide an analysis with predictions and actionable advice.
Expenses are tagged with an allocation bucket (Needs, Wants, Savings & Debt); "allocation" holds
the percentage of income the user assigns to each bucket. Fixed expenses recur monthly on "dueDate".

Respond with JSON in exactly this shape:
%s

The data is: %s`, now.Format("January 2, 2006"), responseShape, data), nil
}
