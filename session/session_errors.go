package session

import "errors"

var (
	// ErrRefreshWaitTimeout is returned to a caller whose bounded wait for
	// an in-flight refresh elapsed before the refresh resolved. The refresh
	// itself keeps running; only this caller gives up.
	ErrRefreshWaitTimeout = errors.New("timed out waiting for session refresh")
)
