package models

import "errors"

// ErrDuplicate is returned by stores when a write collides with a unique key.
var ErrDuplicate = errors.New("duplicate record")
