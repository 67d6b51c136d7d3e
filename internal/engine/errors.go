package engine

import "errors"

// ErrUnknownNode is returned by UpdateNode when the named node is not
// part of the fixed topology. The registry is left unchanged.
var ErrUnknownNode = errors.New("unknown node")
