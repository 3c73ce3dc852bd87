package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream request failed")
	ErrInvalidInput = errors.New("invalid input")
)
