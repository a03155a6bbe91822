package domain

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrVersionConflict = errors.New("session was modified concurrently")
)
