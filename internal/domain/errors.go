package domain

import "errors"

// ErrTabNotFound reports a lookup by id that matched no tracked tab
var ErrTabNotFound = errors.New("tab not found")
