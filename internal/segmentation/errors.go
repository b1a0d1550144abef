package segmentation

import "errors"

// ErrInvalidArgument marks validation failures raised at the boundary of
// the offending function. Indeterminate pixel arithmetic is never an
// error; it flows through as NaN.
var ErrInvalidArgument = errors.New("invalid argument")
