package vectorindex

import "errors"

var (
	ErrEmptyInput        = errors.New("vectorindex: no vectors to index")
	ErrLengthMismatch    = errors.New("vectorindex: vectors and chunks differ in length")
	ErrDimensionMismatch = errors.New("vectorindex: dimension mismatch")
	ErrEmptyIndex        = errors.New("vectorindex: index is empty")
	ErrInvalidK          = errors.New("vectorindex: k must be positive")
	ErrInvalidKey        = errors.New("vectorindex: invalid document key")
	ErrArtifactNotFound  = errors.New("vectorindex: artifact not found")
	ErrCorruptArtifact   = errors.New("vectorindex: corrupt artifact")
)
