package constant

// Document processing lifecycle. Transitions only move forward:
// pending -> processing -> completed | failed.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// Event types published on the NATS bus.
const (
	EventDocumentUploaded  = "DOCUMENT_UPLOADED"
	EventDocumentProcessed = "DOCUMENT_PROCESSED"
	EventDocumentFailed    = "DOCUMENT_FAILED"
)
