package domain

// ChatRole distinguishes who authored a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of the coach chat. History is view state only;
// it is not persisted with the profile.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
