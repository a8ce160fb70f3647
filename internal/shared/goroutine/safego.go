// Package goroutine provides utilities for running goroutines with panic
// recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/sortwise/sessiond/internal/shared/logger"
)

// SafeGo launches fn in a goroutine. A panic is logged with its stack instead
// of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer recoverAndLog(log, name)
		fn()
	}()
}

// Recover wraps fn for use with errgroup: a panic in fn is logged and returned
// as an error, so the group cancels its siblings instead of the process dying.
func Recover(log logger.Interface, name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logPanic(log, name, r)
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		return fn()
	}
}

func recoverAndLog(log logger.Interface, name string) {
	if r := recover(); r != nil {
		logPanic(log, name, r)
	}
}

func logPanic(log logger.Interface, name string, r any) {
	log.Errorw("goroutine panicked",
		"goroutine", name,
		"panic", fmt.Sprintf("%v", r),
		"stack", string(debug.Stack()),
	)
}
