package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Snapshot is the data handed to the model. Hidden records are left out.
type Snapshot struct {
	Income        []model.Income       `json:"income"`
	Expenses      []model.Expense      `json:"expenses"`
	FixedExpenses []model.FixedExpense `json:"fixedExpenses"`
	Debts         []model.Debt         `json:"debts"`
	Goals         []model.Goal         `json:"goals"`
	Allocation    model.Allocation     `json:"allocation"`
}

// NewSnapshot copies the visible records of doc.
func NewSnapshot(doc model.Document) Snapshot {
	s := Snapshot{Allocation: doc.Settings.Allocation}
	for _, r := range doc.Income {
		if !r.Hidden {
			s.Income = append(s.Income, r)
		}
	}
	for _, r := range doc.Expenses {
		if !r.Hidden {
			s.Expenses = append(s.Expenses, r)
		}
	}
	for _, r := range doc.FixedExpenses {
		if !r.Hidden {
			s.FixedExpenses = append(s.FixedExpenses, r)
		}
	}
	for _, r := range doc.Debts {
		if !r.Hidden {
			s.Debts = append(s.Debts, r)
		}
	}
	for _, r := range doc.Goals {
		if !r.Hidden {
			r.Contributions = append([]model.Contribution(nil), r.Contributions...)
			s.Goals = append(s.Goals, r)
		}
	}
	return s
}

// Report is the structured analysis returned by the model.
type Report struct {
	FinancialHealth  FinancialHealth  `json:"financialHealth"`
	SpendingForecast SpendingForecast `json:"spendingForecast"`
	GoalEstimates    []GoalEstimate   `json:"goalEstimates"`
	Recommendations  []Recommendation `json:"recommendations"`

	GeneratedAt time.Time `json:"-"`
	Model       string    `json:"-"`
}

// FinancialHealth is a 0-100 score with a short summary.
type FinancialHealth struct {
	Score   decimal.Decimal `json:"score"`
	Summary string          `json:"summary"`
}

// SpendingForecast predicts spend over the next 30 days.
type SpendingForecast struct {
	Next30Days decimal.Decimal `json:"next30Days"`
	Comment    string          `json:"comment"`
}

// GoalEstimate is the projected completion of one goal.
type GoalEstimate struct {
	GoalTitle               string `json:"goalTitle"`
	EstimatedCompletionDate string `json:"estimatedCompletionDate"`
}

// Recommendation is one piece of advice.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// messagesRequest is the Anthropic Messages API request body.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the subset of the Messages API response we read.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
