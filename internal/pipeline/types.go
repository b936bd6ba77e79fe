package pipeline

// Stage identifies where a job is in the pipeline
type Stage string

const (
	StageQueued        Stage = "queued"
	StageFetchingAudio Stage = "fetching-audio"
	StageTranscribing  Stage = "transcribing"
	StageTranslating   Stage = "translating"
	StageSummarizing   Stage = "summarizing"
	StageCachedHit     Stage = "cached-hit"
	StageComplete      Stage = "complete"
)

// Operation is what the client asked for
type Operation string

const (
	OpTranscribe Operation = "transcribe"
	OpSummarize  Operation = "summarize"
)

// Request is the single job submission sent over the streaming channel.
// Credentials travel with the request; the backend never stores them.
type Request struct {
	VideoURL           string    `json:"video_url"`
	APIKey             string    `json:"api_key"`
	BaseURL            string    `json:"base_url,omitempty"`
	TargetLanguage     string    `json:"target_language,omitempty"`
	TranscriptionModel string    `json:"transcription_model,omitempty"`
	TranslationModel   string    `json:"translation_model,omitempty"`
	SummarizationModel string    `json:"summarization_model,omitempty"`
	Provider           string    `json:"provider,omitempty"`
	Operation          Operation `json:"operation,omitempty"`
}

// Payload is the data section of a terminal result
type Payload struct {
	VTT     string `json:"vtt,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Event actions on the wire
const (
	ActionProgress            = "progress"
	ActionTranscriptionResult = "transcription_result"
	ActionSummaryResult       = "summary_result"
)

// Event is one message pushed to the client: either a progress update or the
// single terminal result
type Event struct {
	Action   string   `json:"action"`
	Stage    Stage    `json:"stage,omitempty"`
	Progress int      `json:"progress,omitempty"`
	Details  string   `json:"details,omitempty"`
	Success  *bool    `json:"success,omitempty"`
	Data     *Payload `json:"data,omitempty"`
	Error    string   `json:"error,omitempty"`
	// Err keeps the classified failure for server-side consumers; only the
	// message crosses the wire
	Err *Error `json:"-"`
}

// Terminal reports whether this event ends the job
func (e Event) Terminal() bool {
	return e.Action != ActionProgress
}

func resultAction(op Operation) string {
	if op == OpSummarize {
		return ActionSummaryResult
	}
	return ActionTranscriptionResult
}

func progressEvent(stage Stage, progress int, details string) Event {
	return Event{Action: ActionProgress, Stage: stage, Progress: progress, Details: details}
}

func successEvent(op Operation, data Payload) Event {
	ok := true
	return Event{Action: resultAction(op), Success: &ok, Data: &data}
}

func failureEvent(op Operation, err *Error) Event {
	ok := false
	return Event{Action: resultAction(op), Success: &ok, Error: err.Message, Err: err}
}
