package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentIngested signals that a document's chunks were (re)built.
func NewDocumentIngested(docID int64, chunkCount int) Event {
	return BaseEvent{
		Type: "DOCUMENT_INGESTED",
		Data: map[string]interface{}{
			"doc_id":      docID,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewResearchCompleted signals that a research run reached a terminal state.
func NewResearchCompleted(runID string, status string, sourceCount int) Event {
	return BaseEvent{
		Type: "RESEARCH_COMPLETED",
		Data: map[string]interface{}{
			"run_id":       runID,
			"status":       status,
			"source_count": sourceCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewWebPageCached signals that a web page was fetched and stored.
func NewWebPageCached(url string, chunkCount int) Event {
	return BaseEvent{
		Type: "WEB_PAGE_CACHED",
		Data: map[string]interface{}{
			"url":         url,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
