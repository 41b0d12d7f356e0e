package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a conversation sent by the browser.
// Timestamp is display-only and never forwarded upstream.
type ChatMessage struct {
	Role      Role   `json:"role" validate:"required,oneof=user assistant"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}
