package websocket

// Message defines the structure for websocket messages. Action is one of
// "prompt.created", "prompt.updated", "prompt.deleted" or "stats.update".
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
