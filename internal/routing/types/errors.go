package types

import "fmt"

// RouteOperationError represents an error that occurred during route operations
type RouteOperationError struct {
	ErrorType   RouteErrorType
	Destination string // the destination that caused the error
	Gateway     string // the gateway involved in the error
	Output      string // verbatim diagnostic output from the external tool
	Cause       error  // underlying error
}

// RouteErrorType represents the category of routing operation error
type RouteErrorType int

// Route error type constants
const (
	// RouteErrMalformedInput indicates a destination or gateway that fails
	// format rules; never sent to the external executor
	RouteErrMalformedInput RouteErrorType = iota
	// RouteErrSemanticConflict indicates mutually exclusive behavior flags
	RouteErrSemanticConflict
	// RouteErrClassification indicates a gateway token matching no known kind
	RouteErrClassification
	// RouteErrCancelled indicates the user dismissed the privilege prompt
	RouteErrCancelled
	// RouteErrPermission indicates insufficient privileges for route operations
	RouteErrPermission
	// RouteErrExecution indicates a generic external tool failure
	RouteErrExecution
	// RouteErrNotFound indicates route not found in system table
	RouteErrNotFound
)

// String returns a string representation of the route error type
func (e RouteErrorType) String() string {
	switch e {
	case RouteErrMalformedInput:
		return "MalformedInput"
	case RouteErrSemanticConflict:
		return "SemanticConflict"
	case RouteErrClassification:
		return "Classification"
	case RouteErrCancelled:
		return "Cancelled"
	case RouteErrPermission:
		return "Permission"
	case RouteErrExecution:
		return "Execution"
	case RouteErrNotFound:
		return "NotFound"
	default:
		return "UnknownError"
	}
}

// Error implements the error interface for RouteOperationError
func (roe *RouteOperationError) Error() string {
	return fmt.Sprintf("route operation failed [%s] for %q via %q: %v",
		roe.ErrorType.String(),
		roe.Destination,
		roe.Gateway,
		roe.Cause)
}

// Unwrap returns the underlying cause
func (roe *RouteOperationError) Unwrap() error {
	return roe.Cause
}

// IsUserFacing returns true for failures that should be reported with their
// category rather than as a generic error
func (roe *RouteOperationError) IsUserFacing() bool {
	return roe.ErrorType == RouteErrCancelled || roe.ErrorType == RouteErrPermission
}

// IsPermissionError returns true if the error is due to insufficient privileges
func (roe *RouteOperationError) IsPermissionError() bool {
	return roe.ErrorType == RouteErrPermission
}
