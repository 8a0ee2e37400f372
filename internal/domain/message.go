package domain

// Role identifies the author of a single conversation turn.
// Roles map onto provider wire formats in the adapter layer; RoleContext is
// internal to docvet and carries the serialized document structure.
type Role string

const (
	// RoleSystem carries fixed instructions that frame the whole session.
	RoleSystem Role = "system"

	// RoleContext carries the serialized document structure. It is sent once
	// per session and serialized as a user turn by every provider adapter.
	RoleContext Role = "context"

	// RoleUser carries a validation question for one spec.
	RoleUser Role = "user"

	// RoleAssistant carries a backend reply.
	RoleAssistant Role = "assistant"
)

// IsValidRole reports whether the role is one of the recognized turn authors.
func IsValidRole(role Role) bool {
	switch role {
	case RoleSystem, RoleContext, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is one immutable turn in a session transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// FinishReason indicates why a backend stopped generating.
type FinishReason string

const (
	// FinishStop indicates natural completion.
	FinishStop FinishReason = "stop"

	// FinishLength indicates the max-token limit was reached.
	FinishLength FinishReason = "length"

	// FinishContentFilter indicates content was blocked by safety filters.
	FinishContentFilter FinishReason = "content_filter"
)
