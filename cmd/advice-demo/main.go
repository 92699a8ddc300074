package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"teleport/internal/ai"
)

func main() {
	log := zap.NewExample()
	query := flag.String("query", "What is the fastest way to get a parcel across downtown at rush hour?", "question for the advisor")
	situation := flag.String("situation", "", "extra context; defaults to the current time and a sample location")
	metrics := flag.String("metrics", "", "delivery metrics JSON; when set, runs the efficiency analysis instead")
	flag.Parse()

	apiKey := os.Getenv("TELEPORT_AI_GEMINI_KEY")
	if apiKey == "" {
		log.Fatal("TELEPORT_AI_GEMINI_KEY environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	advisor, err := ai.NewGeminiAdvisor(ctx, apiKey)
	if err != nil {
		log.Fatal("init advisor", zap.Error(err))
	}
	defer advisor.Close()

	if *metrics != "" {
		out, err := advisor.AnalyzeEfficiency(ctx, *metrics)
		if err != nil {
			log.Fatal("analyze", zap.Error(err))
		}
		fmt.Println(out)
		return
	}

	ctxText := *situation
	if ctxText == "" {
		ctxText = fmt.Sprintf("current_time=%s user_location=Civic Center, San Francisco", time.Now().Format(time.RFC3339))
	}
	fmt.Printf("User: %s\n", *query)
	out, err := advisor.Advice(ctx, *query, ctxText)
	if err != nil {
		log.Fatal("advice", zap.Error(err))
	}
	fmt.Printf("Advisor: %s\n", out)
}
