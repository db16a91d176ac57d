package utils

import (
	"fmt"
	"runtime/debug"
)

// PanicError is returned by SafeCall when fn panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", e.Value)
}

// SafeCall runs fn and converts a panic into a *PanicError.
func SafeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// GoSafe runs fn in a goroutine, swallowing any panic.
func GoSafe(fn func()) {
	go func() {
		_ = SafeCall(func() error {
			fn()
			return nil
		})
	}()
}
