package dto

import "github.com/google/uuid"

type UploadInsightResponse struct {
	SessionID      uuid.UUID `json:"session_id"`
	InitialSummary string    `json:"initial_summary"`
}

type InsightAskRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	Question  string    `json:"question" binding:"required"`
}

type InsightAskResponse struct {
	Answer string `json:"answer"`
}

type ClearInsightRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

type ClearInsightResponse struct {
	Success bool `json:"success"`
}
