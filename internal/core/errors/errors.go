package errors

const (
	HttpInternalError           = "internal_error"
	HttpInvalidUploadError      = "invalid_upload"
	HttpInvalidCsvError         = "invalid_csv"
	HttpInvalidQueryError       = "invalid_query"
	HttpDuplicateReferenceError = "duplicate_reference"
)

// ErrorResponse is the error response body for all API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
