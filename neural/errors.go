package neural

import "errors"

// ErrConfiguration is wrapped by every error caused by an invalid network or
// population setup (mismatched gene counts, bad layer sizes, empty vectors).
// Such setups are rejected before any computation runs.
var ErrConfiguration = errors.New("configuration error")
