package provider

import (
	"context"
	"mime/multipart"
	"strings"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Groq uses the OpenAI-compatible Groq API. Strict json_schema mode is
// avoided there (it slows inference down badly); plain json_object is used
// for translation batches instead.
type Groq struct {
	client *chatClient
}

func NewGroq() *Groq {
	c := newChatClient("groq", groqBaseURL, false)
	c.transcribeFields = func(model string, w *multipart.Writer) {
		w.WriteField("temperature", "0")
	}
	c.chatParams = func(model string, body map[string]interface{}) {
		// gpt-oss already has a high completion limit; llama-family models
		// need it raised explicitly for large batches
		if !strings.Contains(model, "gpt-oss") {
			body["max_tokens"] = 4096
		}
	}
	return &Groq{client: c}
}

func (p *Groq) Name() string {
	return "groq"
}

func (p *Groq) Transcribe(ctx context.Context, audioPath, model string, creds Credentials) (string, error) {
	return p.client.transcribeAudio(ctx, audioPath, model, creds)
}

func (p *Groq) Translate(ctx context.Context, vttContent, targetLang, model string, creds Credentials, updateProgress func(float64)) (string, error) {
	return p.client.translateVTT(ctx, vttContent, targetLang, model, creds, updateProgress)
}

func (p *Groq) Summarize(ctx context.Context, transcript, targetLang, model string, creds Credentials) (*Summary, error) {
	return p.client.summarizeTranscript(ctx, transcript, targetLang, model, creds)
}
