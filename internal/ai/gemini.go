package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-2.0-flash"

// generator is the part of *genai.GenerativeModel the advisor needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiAdvisor implements Advisor using Google's Gemini models.
type GeminiAdvisor struct {
	client *genai.Client
	model  generator
}

// NewGeminiAdvisor initializes a new Gemini client.
func NewGeminiAdvisor(ctx context.Context, apiKey string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiModel)
	model.SetTemperature(0.4)

	return &GeminiAdvisor{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (a *GeminiAdvisor) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

func (a *GeminiAdvisor) Advice(ctx context.Context, query, situation string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("gemini: empty query")
	}
	text, err := a.generate(ctx, buildAdvicePrompt(query, situation))
	if err != nil {
		return "", err
	}
	if text == "" {
		return EmptyAdvice, nil
	}
	return text, nil
}

func (a *GeminiAdvisor) AnalyzeEfficiency(ctx context.Context, metrics string) (string, error) {
	text, err := a.generate(ctx, buildAnalysisPrompt(metrics))
	if err != nil {
		return "", err
	}
	if text == "" {
		return EmptyAnalysis, nil
	}
	return text, nil
}

func (a *GeminiAdvisor) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		parts = append(parts, string(txt))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func buildAdvicePrompt(query, situation string) string {
	if strings.TrimSpace(situation) == "" {
		situation = "NONE"
	}
	return fmt.Sprintf(`You are "Tele", an expert logistics coordinator and AI assistant for the Teleport platform.
Teleport is a high-end delivery and ride-sharing aggregator.

Context about the user's business/situation:
%s

User Query:
%s

Provide a concise, professional, and actionable response. Focus on cost-saving, route optimization, and efficiency.
If the user asks about specific prices, give an estimate based on market trends (Uber/Lyft).
Keep your tone helpful, futuristic, and efficient.`, situation, query)
}

func buildAnalysisPrompt(metrics string) string {
	return fmt.Sprintf(`Analyze the following weekly business delivery data JSON and provide 3 key insights to save money or improve speed.
Data: %s

Format the output as a simple Markdown list.`, metrics)
}
