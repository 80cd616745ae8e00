package sparsemap

import "errors"

var (
	ErrIndexOutOfRange = errors.New("sparsemap: index out of range")
	ErrKeyOrder        = errors.New("sparsemap: key breaks ascending order")
	ErrIntegrity       = errors.New("sparsemap: integrity check failed")
)
