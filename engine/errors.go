package engine

import "errors"

var (
	// ErrUnknownRelation is returned when a batch spec names a relation
	// the model does not declare.
	ErrUnknownRelation = errors.New("unknown relation")

	// ErrUnknownTypeTag is returned when a row carries a type tag with
	// no registered model type.
	ErrUnknownTypeTag = errors.New("unknown type tag")

	// ErrDanglingReference is returned when a non-null reference points
	// at a row that no longer exists.
	ErrDanglingReference = errors.New("dangling reference")
)
