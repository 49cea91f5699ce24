package domain

import "errors"

// ============================================================================
// Agent Errors
// ============================================================================

var (
	ErrEmptyQuestion     = errors.New("question must not be empty")
	ErrAgentInitializing = errors.New("agent is still initializing")
	ErrAgentUnavailable  = errors.New("agent failed to initialize")
	ErrCompletionFailed  = errors.New("language model request failed")
)

// ============================================================================
// SQL Guard Errors
// ============================================================================

var (
	ErrRestrictedStatement = errors.New("query contains restricted statement keywords")
	ErrNotSelectStatement  = errors.New("only a single SELECT statement is allowed")
)

// ============================================================================
// Insight Session Errors
// ============================================================================

var (
	ErrSessionNotFound   = errors.New("insight session not found")
	ErrSessionImageGone  = errors.New("the report image for this session is no longer available, please upload it again")
	ErrMissingReportFile = errors.New("report file is required")
	ErrMissingSessionID  = errors.New("session id is required")
)

// ============================================================================
// Telemetry Errors
// ============================================================================

var (
	ErrMalformedReading = errors.New("malformed telemetry payload")
	ErrMissingMachine   = errors.New("telemetry reading has no machine name")
)
