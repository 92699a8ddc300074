// README: Logistics advisor contract and the static fallback used without a Gemini key.
package ai

import "context"

// Advisor answers logistics questions for riders and business accounts.
type Advisor interface {
	// Advice answers query given free-form context about the user's situation.
	Advice(ctx context.Context, query, situation string) (string, error)
	// AnalyzeEfficiency returns a short markdown list of insights for the
	// given delivery metrics (usually JSON).
	AnalyzeEfficiency(ctx context.Context, metrics string) (string, error)
}

const (
	MissingKeyAdvice    = "AI Service Unavailable (Missing Key)"
	MissingKeyAnalysis  = "Analysis Unavailable"
	EmptyAdvice         = "No advice generated."
	EmptyAnalysis       = "No analysis available."
	AdviceUnavailable   = "I'm having trouble connecting to the logistics network right now. Please try again."
	AnalysisUnavailable = "Could not analyze data at this time."
)

// StaticAdvisor never calls out; it reports that the service is unavailable.
type StaticAdvisor struct{}

func (StaticAdvisor) Advice(context.Context, string, string) (string, error) {
	return MissingKeyAdvice, nil
}

func (StaticAdvisor) AnalyzeEfficiency(context.Context, string) (string, error) {
	return MissingKeyAnalysis, nil
}
