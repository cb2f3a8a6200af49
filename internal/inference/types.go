package inference

import "fmt"

// Endpoint identifies one of the three backend operations by its path.
type Endpoint string

const (
	EndpointClassify   Endpoint = "/api/v1/classify"
	EndpointPrioritize Endpoint = "/api/v1/prioritize"
	EndpointChat       Endpoint = "/api/v1/chat"
)

// Fallback messages shown when the backend supplies no detail.
const (
	ClassifyFallback   = "Failed to classify case."
	PrioritizeFallback = "Failed to prioritize case."
	ChatApology        = "I apologize, but I encountered an error while researching your request."
)

// Fallback returns the fixed user-facing message for a failed call.
func (e Endpoint) Fallback() string {
	switch e {
	case EndpointClassify:
		return ClassifyFallback
	case EndpointPrioritize:
		return PrioritizeFallback
	case EndpointChat:
		return ChatApology
	default:
		return "Request failed."
	}
}

// Name returns a short label for logs.
func (e Endpoint) Name() string {
	switch e {
	case EndpointClassify:
		return "classify"
	case EndpointPrioritize:
		return "prioritize"
	case EndpointChat:
		return "chat"
	default:
		return string(e)
	}
}

// Role is the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// =============================================================================
// REQUESTS
// =============================================================================

// ClassifyRequest asks the backend for a jurisdiction label.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// PrioritizeRequest asks the backend for an urgency label.
type PrioritizeRequest struct {
	Text string `json:"text"`
}

// Turn is one prior message forwarded as chat context.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries a new question plus the full prior transcript, oldest first.
type ChatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

// =============================================================================
// RESULTS
// =============================================================================

// ClassifyResult holds the category label, e.g. "Civil".
type ClassifyResult struct {
	Category string
}

// PrioritizeResult holds the priority label, e.g. "High".
type PrioritizeResult struct {
	Priority string
}

// Source is one retrieved passage backing a chat answer.
type Source struct {
	Content string `json:"content"`
}

// ChatResult holds the synthesized answer and its supporting sources.
type ChatResult struct {
	Answer  string
	Sources []Source
}

// Wire shapes use pointers so an absent required field reads as malformed.

type classifyResponse struct {
	Category *string `json:"category"`
}

func (r classifyResponse) result() (ClassifyResult, error) {
	if r.Category == nil {
		return ClassifyResult{}, fmt.Errorf("response missing %q", "category")
	}
	return ClassifyResult{Category: *r.Category}, nil
}

type prioritizeResponse struct {
	Priority *string `json:"priority"`
}

func (r prioritizeResponse) result() (PrioritizeResult, error) {
	if r.Priority == nil {
		return PrioritizeResult{}, fmt.Errorf("response missing %q", "priority")
	}
	return PrioritizeResult{Priority: *r.Priority}, nil
}

type chatResponse struct {
	Answer  *string  `json:"answer"`
	Sources []Source `json:"sources"`
}

func (r chatResponse) result() (ChatResult, error) {
	if r.Answer == nil {
		return ChatResult{}, fmt.Errorf("response missing %q", "answer")
	}
	sources := r.Sources
	if sources == nil {
		sources = []Source{}
	}
	return ChatResult{Answer: *r.Answer, Sources: sources}, nil
}
