package binding

import "github.com/vango-dev/dynbind/internal/errors"

// ErrDestroyed is returned by passes issued after Teardown.
var ErrDestroyed = errors.New("B020")

var errNilHandler = errors.New("B002")
