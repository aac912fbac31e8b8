package domain

import "fmt"

// ItemStatus is the state of one transcript pipeline item.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusASRPosting ItemStatus = "asr_posting"
	StatusASRPolling ItemStatus = "asr_polling"
	StatusASRDone    ItemStatus = "asr_done"
	StatusLLMPosting ItemStatus = "llm_posting"
	StatusLLMPolling ItemStatus = "llm_polling"
	StatusLLMDone    ItemStatus = "llm_done"
	StatusCompleted  ItemStatus = "completed"
	StatusFailed     ItemStatus = "failed"
)

// ExistSentinel is returned by the transcript API when the work already exists remotely.
const ExistSentinel = "EXIST"

func (s ItemStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func CanTransition(from, to ItemStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusASRPosting
	case StatusASRPosting:
		return to == StatusASRPolling
	case StatusASRPolling:
		return to == StatusASRDone
	case StatusASRDone:
		// completed directly when no cleanup is required
		return to == StatusLLMPosting || to == StatusCompleted
	case StatusLLMPosting:
		return to == StatusLLMPolling
	case StatusLLMPolling:
		return to == StatusLLMDone
	case StatusLLMDone:
		return to == StatusCompleted
	default:
		return false
	}
}

func ValidateTransition(from, to ItemStatus) error {
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid transition: %s -> %s", from, to)
	}
	return nil
}

// LLMTaskRef identifies one cleanup segment.
type LLMTaskRef struct {
	ConversationID string
	ChatID         string
}

func (r LLMTaskRef) IsExist() bool {
	return r.ConversationID == ExistSentinel && r.ChatID == ExistSentinel
}

// Item is one row travelling through the transcript pipeline.
// Stage code never mutates an Item in place; it returns a new value.
type Item struct {
	TableID   string
	RecordID  string
	AwemeID   string
	AudioURL  string
	PlayURL   string
	Duration  int64
	Status    ItemStatus
	ASRTaskID string
	LLMTasks  []LLMTaskRef
	RawText   string
	CleanText string
	NoCleanup bool
	Err       error
}

// Transition returns a copy of the item in status to.
func (it Item) Transition(to ItemStatus) (Item, error) {
	if err := ValidateTransition(it.Status, to); err != nil {
		return it, err
	}
	it.Status = to
	return it, nil
}

// Fail returns a copy of the item marked failed with err.
func (it Item) Fail(err error) Item {
	if it.Status.Terminal() {
		return it
	}
	it.Status = StatusFailed
	it.Err = fmt.Errorf("%w: %s: %w", ErrPipelineItem, it.AwemeID, err)
	return it
}

// Source is the media URL submitted for transcription.
func (it Item) Source() string {
	return MediaSource(it.AudioURL, it.PlayURL)
}

// Text is the value written back for a finished item, if any.
func (it Item) Text() (string, bool) {
	switch {
	case it.Status == StatusLLMDone:
		if it.CleanText != "" {
			return it.CleanText, true
		}
		return it.RawText, it.RawText != ""
	case it.Status == StatusASRDone && it.NoCleanup:
		return it.RawText, it.RawText != ""
	default:
		return "", false
	}
}
