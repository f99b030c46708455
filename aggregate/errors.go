package aggregate

import "errors"

// errTruncated mirrors xdr.ErrTruncated for aggregate-level bounds
// checks that happen before a field codec even runs.
var errTruncated = errors.New("aggregate: truncated while decoding struct")
