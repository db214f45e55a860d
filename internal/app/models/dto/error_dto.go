package dto

// ErrorResponse is the JSON error envelope of the API
type ErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{ErrorCode: code, ErrorMessage: message}
}
