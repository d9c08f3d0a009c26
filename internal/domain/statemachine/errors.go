package statemachine

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when a trigger is not legal from the current state
var ErrIllegalTransition = errors.New("illegal transition")

// IllegalTransitionError reports the state and trigger of a rejected request
type IllegalTransitionError struct {
	State   State
	Trigger Trigger
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%v: trigger %q is not permitted from state %q", ErrIllegalTransition, e.Trigger, e.State)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}
