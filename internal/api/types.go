package api

// CheckResponse is the body of GET /check.
type CheckResponse struct {
	Status string `json:"status"`
}

// ErrCodeBadFrame is the error code sent back for frames that are not valid
// bridge messages.
const ErrCodeBadFrame = "BAD_FRAME"
