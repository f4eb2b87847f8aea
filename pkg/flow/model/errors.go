package model

import "github.com/pkg/errors"

var (
	ErrFieldCollision = errors.New("field names collide")
	ErrFieldNotFound  = errors.New("field not found")
	ErrFieldSize      = errors.New("field sizes do not match")
	ErrConfigDefYAML  = errors.New("config def must be a yaml mapping")
)
