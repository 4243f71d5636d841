package common

import "errors"

var (
	ErrNotLoaded            = errors.New("not loaded")
	ErrInvalidDirection     = errors.New("invalid direction")
	ErrMissingDefaultFacing = errors.New("default variant has no down frames")
	ErrMembership           = errors.New("duplicate or missing membership")
	ErrInvalidAnimationOp   = errors.New("not an animation")
	ErrNoActiveContext      = errors.New("no active context")
	ErrUnknownVariant       = errors.New("unknown variant")
	ErrBusy                 = errors.New("scene is busy")
)
