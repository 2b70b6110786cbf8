package sentinel

import "errors"

// Infrastructure facts returned (optionally wrapped) by stores and platform
// clients. Services translate them into domain errors; they never describe
// validation failures or business denials.
//
//   - ErrNotFound: no record with the requested key
//   - ErrUnavailable: backing store or lock service cannot be reached
//   - ErrLockTimeout: an exclusion could not be acquired in time
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrLockTimeout = errors.New("lock wait timed out")
)
