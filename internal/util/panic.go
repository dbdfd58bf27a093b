package util

import (
	"errors"
	"fmt"
	"runtime/debug"
)

func HandlePanic(r any, withStack bool) (err error, stack string) {
	if r == nil {
		return nil, ""
	}
	if e, ok := r.(error); ok {
		err = e
	} else {
		err = errors.New(fmt.Sprint(r))
	}
	if withStack {
		stack = string(debug.Stack())
	}
	return err, stack
}
