package kdtree

import "errors"

var (
	ErrInvalidDimension  = errors.New("number of dimensions must be greater than 0")
	ErrDimensionMismatch = errors.New("point dimension does not match the tree")
	ErrInvalidAxis       = errors.New("axis is out of range")
	ErrNodeNotFound      = errors.New("node does not belong to the tree")
)
