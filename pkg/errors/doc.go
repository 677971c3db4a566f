// Package errors provides structured error types for better observability
// and programmatic error handling across the agent.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExternalCommand,
//	    "failed to activate swap",
//	    cmdErr,
//	    map[string]interface{}{
//	        "command": "/sbin/swapon /swap",
//	        "output": out,
//	    },
//	)
package errors
