package dto

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
	SQL    string `json:"sql,omitempty"`
	Status string `json:"status"`
}

type AgentStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
