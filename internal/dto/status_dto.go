package dto

type StatusResponse struct {
	OllamaReachable bool     `json:"ollama_reachable"`
	Models          []string `json:"models,omitempty"`
	Documents       int64    `json:"documents"`
	Chunks          int64    `json:"chunks"`
	WebPages        int64    `json:"web_pages"`
	Chats           int64    `json:"chats"`
}

type ModelsResponse struct {
	Models []string `json:"models"`
}
