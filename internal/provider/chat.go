package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yt-subtitles/backend/internal/vtt"
)

const (
	batchSize        = 150
	translateWorkers = 10
	// Longer transcripts are truncated before summarization
	maxSummaryInput = 10000
)

// languageNames maps ISO codes to full names for prompts
var languageNames = map[string]string{
	"en": "English",
	"pt": "Portuguese (Brasil)",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// chatClient talks to an OpenAI-compatible API (chat completions plus audio
// transcriptions). Both registered vendors share it; per-vendor knobs are the
// base URL, structured-output support and request parameter tweaks.
type chatClient struct {
	name             string
	defaultBaseURL   string
	structuredOutput bool // json_schema strict mode for translation batches
	httpClient       *http.Client
	// optional request body tweaks
	transcribeFields func(model string, w *multipart.Writer)
	chatParams       func(model string, body map[string]interface{})
}

func newChatClient(name, baseURL string, structuredOutput bool) *chatClient {
	return &chatClient{
		name:             name,
		defaultBaseURL:   baseURL,
		structuredOutput: structuredOutput,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *chatClient) baseURL(creds Credentials) string {
	if creds.BaseURL != "" {
		return strings.TrimRight(creds.BaseURL, "/")
	}
	return c.defaultBaseURL
}

// transcribeAudio uploads an audio file and returns WebVTT content
func (c *chatClient) transcribeAudio(ctx context.Context, audioPath, model string, creds Credentials) (string, error) {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer audioFile.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return "", err
	}

	writer.WriteField("model", model)
	writer.WriteField("response_format", "vtt")
	if c.transcribeFields != nil {
		c.transcribeFields(model, writer)
	}
	writer.Close()

	url := c.baseURL(creds) + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)

	log.Printf("[%s] transcribing %s with model %s", c.name, filepath.Base(audioPath), model)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &Error{Kind: KindConnection, Message: fmt.Sprintf("cannot reach %s API", c.name)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindConnection, Message: fmt.Sprintf("reading %s response failed", c.name)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(c.name, resp.StatusCode, model)
	}

	vttText := string(body)
	if !strings.HasPrefix(strings.TrimSpace(vttText), "WEBVTT") {
		vttText = "WEBVTT\n\n" + vttText
	}
	return vttText, nil
}

// completions sends one chat request and returns the message content
func (c *chatClient) completions(ctx context.Context, model string, creds Credentials, systemPrompt, userPrompt string, responseFormat map[string]interface{}) (string, error) {
	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.1,
	}
	if responseFormat != nil {
		reqBody["response_format"] = responseFormat
	}
	if c.chatParams != nil {
		c.chatParams(model, reqBody)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := c.baseURL(creds) + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &Error{Kind: KindConnection, Message: fmt.Sprintf("cannot reach %s API", c.name)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindConnection, Message: fmt.Sprintf("reading %s response failed", c.name)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(c.name, resp.StatusCode, model)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse %s response: %w", c.name, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty %s response", c.name)
	}
	return chatResp.Choices[0].Message.Content, nil
}

func (c *chatClient) translationFormat() map[string]interface{} {
	if !c.structuredOutput {
		return map[string]interface{}{"type": "json_object"}
	}
	return map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   "batch_translation",
			"strict": true,
			"schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"translations": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
				"required":             []string{"translations"},
				"additionalProperties": false,
			},
		},
	}
}

// translateTexts translates a batch of cue texts, enforcing the count
// post-condition: a mismatched batch is retried once, then fails as an
// alignment error.
func (c *chatClient) translateTexts(ctx context.Context, texts []string, targetLang, model string, creds Credentials) ([]string, error) {
	systemPrompt := fmt.Sprintf(
		"You are a professional translator. Translate the following subtitles to %s. "+
			"Return ONLY a JSON object with a 'translations' key containing an array of "+
			"translated strings in the exact same order and quantity. Do not add any explanation or markdown.",
		languageName(targetLang))

	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, err
	}
	userPrompt := "JSON array to translate:\n" + string(payload)

	for attempt := 0; attempt < 2; attempt++ {
		content, err := c.completions(ctx, model, creds, systemPrompt, userPrompt, c.translationFormat())
		if err != nil {
			return nil, err
		}

		translations, err := parseTranslations(content)
		if err == nil && len(translations) == len(texts) {
			return translations, nil
		}
		if attempt == 0 {
			log.Printf("[%s] translation batch misaligned (got %d of %d), retrying once", c.name, len(translations), len(texts))
		}
	}

	return nil, &Error{Kind: KindAlignment, Message: fmt.Sprintf("%s returned a translation that does not align with the source cues", c.name)}
}

// parseTranslations extracts the string array from LLM output, tolerating a
// bare array or any single-key object wrapper
func parseTranslations(content string) ([]string, error) {
	// LLMs sometimes return ASS-style \N (line break) which is invalid JSON escape
	content = strings.ReplaceAll(content, `\N`, `\n`)

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err == nil {
		return translations, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil {
		if raw, ok := wrapped["translations"]; ok {
			if err := json.Unmarshal(raw, &translations); err == nil {
				return translations, nil
			}
		}
		for _, raw := range wrapped {
			if err := json.Unmarshal(raw, &translations); err == nil {
				return translations, nil
			}
		}
	}

	// Last resort: extract the first JSON array in the content
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &translations); err == nil {
			return translations, nil
		}
	}

	return nil, fmt.Errorf("no translations found in response")
}

// summarizeTranscript produces a structured summary from transcript text
func (c *chatClient) summarizeTranscript(ctx context.Context, transcript, targetLang, model string, creds Credentials) (*Summary, error) {
	lang := languageName(targetLang)
	systemPrompt := fmt.Sprintf(
		"You are a professional content summarizer. You MUST respond EXCLUSIVELY in %s. "+
			"Return ONLY a JSON object with two keys: 'synopsis' (a concise summary of the video) and "+
			"'key_moments' (an array of 4 to 8 objects, each with 'timestamp' as seconds from the start, "+
			"taken from the subtitle timestamps, and 'headline' as a short description). "+
			"Do not add any explanation or markdown.", lang)

	if len(transcript) > maxSummaryInput {
		transcript = transcript[:maxSummaryInput]
	}
	userPrompt := fmt.Sprintf("Summarize this video transcript in %s:\n\n%s", lang, transcript)

	content, err := c.completions(ctx, model, creds, systemPrompt, userPrompt, map[string]interface{}{"type": "json_object"})
	if err != nil {
		return nil, err
	}

	summary, err := parseSummary(content)
	if err != nil {
		return nil, &Error{Kind: KindAlignment, Message: fmt.Sprintf("%s returned a malformed summary", c.name)}
	}
	return summary, nil
}

// parseSummary decodes the summary JSON, tolerating timestamps given either
// as seconds or as VTT-style strings
func parseSummary(content string) (*Summary, error) {
	var raw struct {
		Synopsis   string `json:"synopsis"`
		KeyMoments []struct {
			Timestamp json.RawMessage `json:"timestamp"`
			Headline  string          `json:"headline"`
		} `json:"key_moments"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, err
	}
	if raw.Synopsis == "" {
		return nil, fmt.Errorf("summary has no synopsis")
	}

	summary := &Summary{Synopsis: raw.Synopsis}
	for _, m := range raw.KeyMoments {
		summary.KeyMoments = append(summary.KeyMoments, KeyMoment{
			Offset:   parseOffset(m.Timestamp),
			Headline: m.Headline,
		})
	}
	return summary, nil
}

func parseOffset(raw json.RawMessage) float64 {
	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err == nil {
		return seconds
	}
	var ts string
	if err := json.Unmarshal(raw, &ts); err == nil {
		return parseClock(ts)
	}
	return 0
}

// parseClock handles "HH:MM:SS", "MM:SS" and bare-seconds strings
func parseClock(ts string) float64 {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	var seconds float64
	for _, p := range parts {
		var v float64
		fmt.Sscanf(p, "%f", &v)
		seconds = seconds*60 + v
	}
	return seconds
}

// batchTranslate runs translateTexts over batches concurrently and reports
// fractional progress after each batch
type batchResult struct {
	texts []string
	err   error
}

func (c *chatClient) batchTranslate(ctx context.Context, texts []string, targetLang, model string, creds Credentials, updateProgress func(float64)) ([]string, error) {
	totalBatches := (len(texts) + batchSize - 1) / batchSize
	log.Printf("[%s] translating %d cues in %d batches (%d per batch, %d concurrent)",
		c.name, len(texts), totalBatches, batchSize, translateWorkers)

	results := make([]batchResult, totalBatches)
	var completed atomic.Int32
	sem := make(chan struct{}, translateWorkers)
	var wg sync.WaitGroup

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batchIdx := i / batchSize
		batch := texts[i:end]

		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, batch []string) {
			defer wg.Done()
			defer func() { <-sem }()

			translated, err := c.translateTexts(ctx, batch, targetLang, model, creds)
			if err != nil {
				results[idx] = batchResult{err: err}
			} else {
				results[idx] = batchResult{texts: translated}
			}

			done := completed.Add(1)
			if updateProgress != nil {
				updateProgress(float64(done) / float64(totalBatches))
			}
		}(batchIdx, batch)
	}

	wg.Wait()

	var merged []string
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		merged = append(merged, r.texts...)
	}
	return merged, nil
}

// translateVTT translates cue text while keeping every cue's timestamps.
// Cue count in equals cue count out; batchTranslate enforces it per batch.
func (c *chatClient) translateVTT(ctx context.Context, vttContent, targetLang, model string, creds Credentials, updateProgress func(float64)) (string, error) {
	cues := vtt.Parse(vttContent)
	if len(cues) == 0 {
		return vttContent, nil
	}

	texts := make([]string, len(cues))
	for i, cue := range cues {
		texts[i] = cue.Text
	}

	translated, err := c.batchTranslate(ctx, texts, targetLang, model, creds, updateProgress)
	if err != nil {
		return "", err
	}

	out := make([]vtt.Cue, len(cues))
	for i, cue := range cues {
		out[i] = vtt.Cue{Start: cue.Start, End: cue.End, Text: translated[i]}
	}
	return vtt.Serialize(out), nil
}
