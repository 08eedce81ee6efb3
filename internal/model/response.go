package model

// RootMessage is the body of GET /. Existing clients match on it verbatim.
const RootMessage = "FastAPI Chat Server Running"

type RootResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse is the body of every synthesized error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// UpstreamResponse is what gets written back to the caller when the webhook
// answered. ContentType is already resolved for the reply.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
