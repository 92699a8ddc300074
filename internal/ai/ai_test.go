package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if txt, ok := parts[0].(genai.Text); ok {
			f.prompt = string(txt)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiAdvisor_Advice(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Batch your", " ", "deliveries.")}
	a := &GeminiAdvisor{model: gen}

	got, err := a.Advice(context.Background(), "How do I save on deliveries?", "bakery, 40 orders/day")
	if err != nil {
		t.Fatalf("Advice: %v", err)
	}
	if got != "Batch your\ndeliveries." {
		t.Fatalf("Advice = %q", got)
	}
	if !strings.Contains(gen.prompt, "bakery, 40 orders/day") || !strings.Contains(gen.prompt, "How do I save on deliveries?") {
		t.Fatalf("prompt missing query or context: %q", gen.prompt)
	}
}

func TestGeminiAdvisor_EmptyAndErrors(t *testing.T) {
	ctx := context.Background()

	a := &GeminiAdvisor{model: &fakeGenerator{resp: &genai.GenerateContentResponse{}}}
	if got, err := a.Advice(ctx, "q", ""); err != nil || got != EmptyAdvice {
		t.Fatalf("empty candidates: %q, %v", got, err)
	}
	if got, err := a.AnalyzeEfficiency(ctx, "{}"); err != nil || got != EmptyAnalysis {
		t.Fatalf("empty analysis: %q, %v", got, err)
	}

	a = &GeminiAdvisor{model: &fakeGenerator{err: errors.New("quota exceeded")}}
	if _, err := a.Advice(ctx, "q", ""); err == nil {
		t.Fatal("expected generation error")
	}
	if _, err := a.Advice(ctx, "   ", ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestGeminiAdvisor_AnalyzePrompt(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("- ship earlier")}
	a := &GeminiAdvisor{model: gen}
	if _, err := a.AnalyzeEfficiency(context.Background(), `{"orders":12}`); err != nil {
		t.Fatalf("AnalyzeEfficiency: %v", err)
	}
	if !strings.Contains(gen.prompt, `{"orders":12}`) {
		t.Fatalf("metrics not in prompt: %q", gen.prompt)
	}
}

func TestStaticAdvisor(t *testing.T) {
	var a Advisor = StaticAdvisor{}
	if got, _ := a.Advice(context.Background(), "q", "c"); got != MissingKeyAdvice {
		t.Fatalf("Advice = %q", got)
	}
	if got, _ := a.AnalyzeEfficiency(context.Background(), "{}"); got != MissingKeyAnalysis {
		t.Fatalf("AnalyzeEfficiency = %q", got)
	}
}
