package insight

import "time"

// Role identifies the author of a ChatMessage.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Phase is the request state of a conversation.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingResponse Phase = "awaiting_response"
)

// ChatMessage is one immutable entry of the conversation history.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationState is a point-in-time copy of the conversation. Messages are
// in creation order. PendingRequestID is set iff Phase is PhaseAwaitingResponse.
type ConversationState struct {
	Messages         []ChatMessage `json:"messages"`
	Phase            Phase         `json:"phase"`
	PendingRequestID string        `json:"pending_request_id,omitempty"`
}

// Outcome reports what Submit did with a question.
type Outcome string

const (
	// OutcomeIgnored means the guard rejected the call: a request was already
	// in flight or the question was blank. Nothing changed.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeNoData means the event set was empty; a reply saying so was appended.
	OutcomeNoData Outcome = "no_data"
	// OutcomeMissingCredential means no model credential is configured; a reply saying so was appended.
	OutcomeMissingCredential Outcome = "missing_credential"
	// OutcomePending means the question was recorded and a model call started.
	OutcomePending Outcome = "pending"
)
