package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yt-subtitles/backend/internal/cache"
	"github.com/yt-subtitles/backend/internal/downloader"
	"github.com/yt-subtitles/backend/internal/provider"
	"github.com/yt-subtitles/backend/internal/vtt"
)

// DefaultTimeout is the wall-clock bound for one whole job
const DefaultTimeout = 30 * time.Minute

// Progress milestones per stage; translation interpolates between
// progressTranslating and progressAlmostDone as batches land
const (
	progressQueued      = 5
	progressFetching    = 15
	progressTranscribed = 50
	progressTranslating = 75
	progressAlmostDone  = 95
	progressComplete    = 100
)

// Runner drives jobs through fetch, transcribe and translate/summarize
// stages, emitting progress events and exactly one terminal result per job.
type Runner struct {
	registry *provider.Registry
	cache    *cache.Cache
	fetcher  downloader.Fetcher
	timeout  time.Duration

	// TempDir overrides where per-job audio directories are created.
	// Empty means the system default.
	TempDir string
}

func NewRunner(registry *provider.Registry, c *cache.Cache, fetcher downloader.Fetcher, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		registry: registry,
		cache:    c,
		fetcher:  fetcher,
		timeout:  timeout,
	}
}

// Run starts one job and returns its event stream. The stream carries zero or
// more progress events in stage order followed by exactly one terminal event,
// then closes. The job runs detached from any client connection: abandoning
// the stream does not cancel it, only the overall timeout does. The caller
// must drain the channel.
func (r *Runner) Run(req Request) <-chan Event {
	events := make(chan Event, 16)
	go r.run(req, events)
	return events
}

func (r *Runner) run(req Request, events chan<- Event) {
	defer close(events)

	jobID := uuid.New().String()[:8]
	req.applyDefaults()

	lastProgress := 0
	emit := func(stage Stage, progress int, details string) {
		// Progress never regresses within a job
		if progress < lastProgress {
			progress = lastProgress
		}
		lastProgress = progress
		log.Printf("[pipeline] job %s: %s (%d%%)", jobID, stage, progress)
		events <- progressEvent(stage, progress, details)
	}

	fail := func(jerr *Error) {
		log.Printf("[pipeline] job %s failed: %v", jobID, jerr)
		events <- failureEvent(req.Operation, jerr)
	}

	emit(StageQueued, progressQueued, "")

	videoID, jerr := r.validate(&req)
	if jerr != nil {
		fail(jerr)
		return
	}

	key := cache.Key{VideoID: videoID, Language: req.TargetLanguage, Operation: string(req.Operation)}
	if payload, ok, err := r.cache.Get(key); err != nil {
		log.Printf("[pipeline] job %s: cache probe failed: %v", jobID, err)
	} else if ok {
		log.Printf("[pipeline] job %s: cache hit for %s/%s/%s", jobID, key.VideoID, key.Language, key.Operation)
		emit(StageCachedHit, progressComplete, "served from cache")
		events <- successEvent(req.Operation, payloadFor(req.Operation, payload))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	data, jerr := r.execute(ctx, jobID, req, emit)
	if jerr != nil {
		fail(jerr)
		return
	}

	// The cache write is the only durable side effect of a job
	if err := r.cache.Put(key, cachedPayload(req.Operation, data)); err != nil {
		log.Printf("[pipeline] job %s: cache write failed: %v", jobID, err)
	}

	emit(StageComplete, progressComplete, "")
	log.Printf("[pipeline] job %s completed in %s", jobID, time.Since(start).Round(time.Millisecond))
	events <- successEvent(req.Operation, data)
}

func (req *Request) applyDefaults() {
	if req.Operation == "" {
		req.Operation = OpTranscribe
	}
	if req.Provider == "" {
		req.Provider = "openai"
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "en"
	}
	if req.TranscriptionModel == "" {
		req.TranscriptionModel = provider.DefaultTranscriptionModel(req.Provider)
	}
	if req.TranslationModel == "" {
		req.TranslationModel = provider.DefaultTranslationModel(req.Provider)
	}
	if req.SummarizationModel == "" {
		req.SummarizationModel = req.TranslationModel
	}
}

// validate checks the request before any external work; failures here never
// contact the downloader or a provider
func (r *Runner) validate(req *Request) (string, *Error) {
	if req.VideoURL == "" {
		return "", validationError("video_url is required")
	}
	videoID, err := downloader.VideoID(req.VideoURL)
	if err != nil {
		return "", validationError("invalid YouTube URL: %s", req.VideoURL)
	}
	if len(req.APIKey) < 10 {
		return "", validationError("API key must be at least 10 characters")
	}
	if req.Operation != OpTranscribe && req.Operation != OpSummarize {
		return "", validationError("unknown operation: %s", req.Operation)
	}
	if _, err := r.registry.Get(req.Provider); err != nil {
		return "", validationError("invalid provider %q (available: %s)", req.Provider, strings.Join(r.registry.Names(), ", "))
	}
	if !provider.KnownTranscriptionModel(req.Provider, req.TranscriptionModel) {
		return "", validationError("unknown transcription model %q for provider %s", req.TranscriptionModel, req.Provider)
	}
	textModel := req.TranslationModel
	if req.Operation == OpSummarize {
		textModel = req.SummarizationModel
	}
	if !provider.KnownTranslationModel(req.Provider, textModel) {
		return "", validationError("unknown model %q for provider %s", textModel, req.Provider)
	}
	return videoID, nil
}

// execute runs the external stages. The temporary audio directory is removed
// on every exit path, success or failure.
func (r *Runner) execute(ctx context.Context, jobID string, req Request, emit func(Stage, int, string)) (Payload, *Error) {
	prov, err := r.registry.Get(req.Provider)
	if err != nil {
		return Payload{}, validationError("invalid provider %q", req.Provider)
	}
	creds := provider.Credentials{APIKey: req.APIKey, BaseURL: req.BaseURL}

	tmpDir, err := os.MkdirTemp(r.TempDir, "audio-"+jobID+"-*")
	if err != nil {
		// Resource exhaustion is the one fatal case
		return Payload{}, &Error{Kind: KindInternal, Message: "cannot allocate temporary audio storage"}
	}
	defer os.RemoveAll(tmpDir)

	emit(StageFetchingAudio, progressFetching, "downloading audio")
	audioPath, err := r.fetcher.Fetch(ctx, req.VideoURL, tmpDir)
	if err != nil {
		return Payload{}, classify(ctx, err, KindFetch)
	}

	emit(StageTranscribing, progressTranscribed, fmt.Sprintf("transcribing with %s/%s", req.Provider, req.TranscriptionModel))
	vttText, err := prov.Transcribe(ctx, audioPath, req.TranscriptionModel, creds)
	if err != nil {
		return Payload{}, classify(ctx, err, KindConnection)
	}

	if req.Operation == OpSummarize {
		emit(StageSummarizing, progressTranslating, fmt.Sprintf("summarizing with %s", req.SummarizationModel))
		summary, err := prov.Summarize(ctx, vttText, req.TargetLanguage, req.SummarizationModel, creds)
		if err != nil {
			return Payload{}, classify(ctx, err, KindConnection)
		}
		return Payload{Summary: renderSummary(summary)}, nil
	}

	if req.TargetLanguage != "original" {
		emit(StageTranslating, progressTranslating, fmt.Sprintf("translating to %s", req.TargetLanguage))
		translated, err := prov.Translate(ctx, vttText, req.TargetLanguage, req.TranslationModel, creds, func(frac float64) {
			p := progressTranslating + int(frac*float64(progressAlmostDone-progressTranslating))
			emit(StageTranslating, p, fmt.Sprintf("translating to %s", req.TargetLanguage))
		})
		if err != nil {
			return Payload{}, classify(ctx, err, KindConnection)
		}
		vttText = translated
	}

	return Payload{VTT: vttText}, nil
}

func payloadFor(op Operation, cached string) Payload {
	if op == OpSummarize {
		return Payload{Summary: cached}
	}
	return Payload{VTT: cached}
}

func cachedPayload(op Operation, data Payload) string {
	if op == OpSummarize {
		return data.Summary
	}
	return data.VTT
}

// renderSummary flattens a structured summary into the wire/cache text form
func renderSummary(s *provider.Summary) string {
	var sb strings.Builder
	sb.WriteString(s.Synopsis)
	if len(s.KeyMoments) > 0 {
		sb.WriteString("\n\nKey moments:\n")
		for _, m := range s.KeyMoments {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", vtt.FormatTimestamp(m.Offset), m.Headline))
		}
	}
	return sb.String()
}
