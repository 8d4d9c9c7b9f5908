// Package executor runs assembled route commands with elevated privilege and
// classifies their outcomes.
package executor

import (
	"fmt"
	"strings"

	"github.com/routepilot/routepilot/internal/routing/types"
)

// Runner executes one assembled argument sequence and returns the tool's
// combined output. Implementations decide how privilege is obtained.
type Runner interface {
	Run(args []string) (string, error)
}

// cancelMarkers are the substrings that identify a dismissed privilege
// prompt in the tool's diagnostic output
var cancelMarkers = []string{
	"user canceled",
	"user cancelled",
	"-128",
}

// permissionMarkers identify a privilege denial
var permissionMarkers = []string{
	"not permitted",
	"permission denied",
	"must be root",
	"administrator privileges",
}

// ClassifyFailure maps a failed execution's output to its error category:
// cancellation and permission denial each get a distinct user-facing
// category, anything else stays a generic execution failure.
func ClassifyFailure(output string) types.RouteErrorType {
	lowered := strings.ToLower(output)
	for _, marker := range cancelMarkers {
		if strings.Contains(lowered, marker) {
			return types.RouteErrCancelled
		}
	}
	for _, marker := range permissionMarkers {
		if strings.Contains(lowered, marker) {
			return types.RouteErrPermission
		}
	}
	return types.RouteErrExecution
}

// FailureError wraps a failed run into a categorized RouteOperationError,
// keeping the verbatim output alongside the category hint
func FailureError(destination, gw, output string, cause error) *types.RouteOperationError {
	return &types.RouteOperationError{
		ErrorType:   ClassifyFailure(output),
		Destination: destination,
		Gateway:     gw,
		Output:      output,
		Cause:       fmt.Errorf("route command failed: %w", cause),
	}
}
