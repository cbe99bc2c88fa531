package controller

import (
	"errors"
	"fmt"
)

// Load and backup failures. All of them are recoverable: each maps to one
// user-visible message and the user re-initiates the operation.
var (
	ErrInvalidBase64    = errors.New("invalid base64 payload")
	ErrPSBTFileTooLarge = errors.New("psbt file exceeds the size limit")
	ErrBackupFailed     = errors.New("wallet backup failed")
)

// DecodeError reports a payload that did not parse as a PSBT. Detail carries
// the parser diagnostic and is never empty.
type DecodeError struct {
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode PSBT: %s", e.Detail)
}
