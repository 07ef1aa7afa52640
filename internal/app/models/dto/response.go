package dto

// APIResponse is the envelope of every successful response
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// SuccessResponse represents a standard success response with only a message
type SuccessResponse struct {
	Message string `json:"message"`
}

// CountResponse carries a single count
type CountResponse struct {
	Count int64 `json:"count" example:"3"`
}
