package essentials

import (
	"errors"
	"fmt"
)

var (
	// ErrProofVerification is matched by every VerificationError.
	ErrProofVerification = errors.New("proof verification failed")

	// ErrLengthMismatch is matched by LengthError and CommitmentLengthError.
	ErrLengthMismatch = errors.New("length mismatch")

	ErrInvalidProductStatement = errors.New("invalid product argument statement")
	ErrInvalidShuffleStatement = errors.New("invalid shuffle statement")
	ErrHashToCurve             = errors.New("cannot hash to curve")

	// ErrEncoding reports malformed serialized data.
	ErrEncoding = errors.New("malformed encoding")
)

// VerificationError reports that a proof of the named kind was rejected.
type VerificationError struct {
	Proof string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("failed to verify %s proof", e.Proof)
}

func (e *VerificationError) Unwrap() error { return ErrProofVerification }

// NewVerificationError returns a VerificationError for the named proof.
func NewVerificationError(proof string) error {
	return &VerificationError{Proof: proof}
}

// CommitmentLengthError is returned when more values are committed to than
// the commitment key has bases.
type CommitmentLengthError struct {
	Scheme string
	Values int
	Bases  int
}

func (e *CommitmentLengthError) Error() string {
	return fmt.Sprintf("failed to output a %s commitment: values %d > bases %d", e.Scheme, e.Values, e.Bases)
}

func (e *CommitmentLengthError) Unwrap() error { return ErrLengthMismatch }

// Operations named by LengthError.
const (
	OpDotProduct      = "dot product"
	OpBilinearMap     = "bilinear map"
	OpHadamardProduct = "hadamard product"
	OpDiagonals       = "diagonals"
)

// LengthError is returned when a binary vector operation receives operands of
// different lengths.
type LengthError struct {
	Op    string
	Left  int
	Right int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s error: left = %d - right = %d", e.Op, e.Left, e.Right)
}

func (e *LengthError) Unwrap() error { return ErrLengthMismatch }

// CastError is returned when a vector cannot be reshaped into a matrix.
type CastError struct {
	Len  int
	Rows int
	Cols int
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast vector of size %d to matrix of %d by %d", e.Len, e.Rows, e.Cols)
}

func (e *CastError) Unwrap() error { return ErrLengthMismatch }

// RemapVerification replaces any verification failure in err with a
// VerificationError for proof, so that a composed argument reports its own
// name. Other errors are returned unchanged.
func RemapVerification(err error, proof string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrProofVerification) {
		return NewVerificationError(proof)
	}
	return err
}
