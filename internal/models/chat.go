package models

// Chat roles as stored in session history. "model" matches the Gemini
// wire role for assistant turns.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of a session's conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
