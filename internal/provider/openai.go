package provider

import (
	"context"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI transcribes with the Whisper API and translates/summarizes with the
// Chat Completions API using strict structured output.
type OpenAI struct {
	client *chatClient
}

func NewOpenAI() *OpenAI {
	return &OpenAI{client: newChatClient("openai", openAIBaseURL, true)}
}

func (p *OpenAI) Name() string {
	return "openai"
}

func (p *OpenAI) Transcribe(ctx context.Context, audioPath, model string, creds Credentials) (string, error) {
	return p.client.transcribeAudio(ctx, audioPath, model, creds)
}

func (p *OpenAI) Translate(ctx context.Context, vttContent, targetLang, model string, creds Credentials, updateProgress func(float64)) (string, error) {
	return p.client.translateVTT(ctx, vttContent, targetLang, model, creds, updateProgress)
}

func (p *OpenAI) Summarize(ctx context.Context, transcript, targetLang, model string, creds Credentials) (*Summary, error) {
	return p.client.summarizeTranscript(ctx, transcript, targetLang, model, creds)
}
