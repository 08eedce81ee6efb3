package model

// ChatRequest is the payload forwarded to the webhook.
type ChatRequest struct {
	UserQuery string `json:"user_query"`
	SessionID string `json:"session_id"`
}

// ChatRequestBody is the inbound /chat body. The pointers let binding reject
// missing or null fields while still accepting empty strings.
type ChatRequestBody struct {
	UserQuery *string `json:"user_query" binding:"required"`
	SessionID *string `json:"session_id" binding:"required"`
}

func (b ChatRequestBody) ToChatRequest() ChatRequest {
	var req ChatRequest
	if b.UserQuery != nil {
		req.UserQuery = *b.UserQuery
	}
	if b.SessionID != nil {
		req.SessionID = *b.SessionID
	}
	return req
}
