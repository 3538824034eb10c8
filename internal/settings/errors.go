package settings

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying configuration failures with errors.Is
var (
	ErrNotFound     = errors.New("config file not found")
	ErrParse        = errors.New("config file is not valid JSON")
	ErrKeyNotFound  = errors.New("config key not found")
	ErrInvalidKey   = errors.New("invalid config key")
	ErrTypeMismatch = errors.New("config value has unexpected type")
	ErrInvalidValue = errors.New("config value cannot be encoded as JSON")
)

// ParseError reports a backing file that could not be decoded
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config file %s is not valid JSON: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// KeyError reports a dotted-key lookup that failed at Segment.
// Key is always the full requested key.
type KeyError struct {
	Key        string
	Segment    string
	NotMapping bool
}

func (e *KeyError) Error() string {
	if e.NotMapping {
		return fmt.Sprintf("config key not found: %s ('%s' is not a mapping)", e.Key, e.Segment)
	}
	return fmt.Sprintf("config key not found: %s", e.Key)
}

func (e *KeyError) Is(target error) bool { return target == ErrKeyNotFound }
