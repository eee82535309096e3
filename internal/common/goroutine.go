package common

import (
	"fmt"
	"runtime/debug"
)

// SafeGo runs fn in a goroutine with panic recovery.
// A panicking worker must never take the process down.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error().
					Str("goroutine", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic in goroutine")
			}
		}()
		fn()
	}()
}
