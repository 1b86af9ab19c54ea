package pet

import (
	"github.com/samber/oops"
)

// Error codes reported by the engine
const (
	CodeCorruptSave       = "CORRUPT_SAVE"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeConfigInvalid     = "CONFIG_INVALID"
)

// ErrUnknownFood is returned by Feed for a food missing from the food table
func ErrUnknownFood(food string) error {
	return oops.Code(CodeInvalidArgument).
		With("food", food).
		Errorf("unknown food %q", food)
}

// ErrCorruptSave wraps a failure to decode the persisted record
func ErrCorruptSave(cause error) error {
	return oops.Code(CodeCorruptSave).
		With("key", SaveKey).
		Wrapf(cause, "save data is corrupt")
}

// ErrPersistence wraps a store read or write failure
func ErrPersistence(operation string, cause error) error {
	return oops.Code(CodePersistenceFailed).
		With("key", SaveKey).
		With("operation", operation).
		Wrapf(cause, "%s failed", operation)
}

// IsCorruptSave reports whether err carries CodeCorruptSave
func IsCorruptSave(err error) bool { return hasCode(err, CodeCorruptSave) }

// IsInvalidArgument reports whether err carries CodeInvalidArgument
func IsInvalidArgument(err error) bool { return hasCode(err, CodeInvalidArgument) }

// IsPersistence reports whether err carries CodePersistenceFailed
func IsPersistence(err error) bool { return hasCode(err, CodePersistenceFailed) }

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
