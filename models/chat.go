package models

// ChatRequest is the payload coming from the chat front-end into /api/chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`              // empty on the first message
	Text      string `json:"text" binding:"required"` // the user's utterance
}

// ChatResponse is what the chat handler returns to the front-end.
type ChatResponse struct {
	SessionID string       `json:"session_id"`
	Reply     string       `json:"reply"`
	State     SessionState `json:"state"`
}
