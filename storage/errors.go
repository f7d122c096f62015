package storage

import "errors"

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrWrongType   = errors.New("wrong type")
)
