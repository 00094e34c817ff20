package avatar

import "errors"

var (
	// ErrInvalidUserID, ErrInvalidResolution and ErrInvalidColor are client
	// input errors and map to a 400 at the HTTP boundary.
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidColor      = errors.New("invalid color")

	// ErrOriginUnavailable covers origin timeouts, network failures and
	// non-success origin responses. The image is not servable right now.
	ErrOriginUnavailable = errors.New("avatar origin unavailable")

	// ErrTransformFailed means the source bytes could not be decoded or
	// re-encoded. A corrupt source is dropped so the next request re-fetches.
	ErrTransformFailed = errors.New("avatar transform failed")
)
