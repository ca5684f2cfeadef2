// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"
)

// RuleError is an action the rules reject: wrong player, wrong timing,
// unpayable cost. It travels back to the client as a success=false envelope
// with an error map; only malformed requests become HTTP errors.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func NewRuleError(code string, format string, args ...interface{}) *RuleError {
	return &RuleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsRuleError unwraps err into a RuleError if it is one.
func AsRuleError(err error) (*RuleError, bool) {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr, true
	}
	return nil, false
}

// Rule error codes.
const (
	ErrCodeNoPendingAction   = "NO_PENDING_ACTION"
	ErrCodeWrongPlayer       = "WRONG_PLAYER"
	ErrCodeUnexpectedAction  = "UNEXPECTED_ACTION"
	ErrCodeCardNotFound      = "CARD_NOT_FOUND"
	ErrCodeInvalidTarget     = "INVALID_TARGET"
	ErrCodeInsufficientDon   = "INSUFFICIENT_DON"
	ErrCodeAttackNotAllowed  = "ATTACK_NOT_ALLOWED"
	ErrCodeGameFinished      = "GAME_FINISHED"
	ErrCodeInvalidSelection  = "INVALID_SELECTION"
	ErrCodeAbilityNotUsable  = "ABILITY_NOT_USABLE"
	ErrCodeInvalidZone       = "INVALID_ZONE"
	ErrCodeUnsupportedAction = "UNSUPPORTED_ACTION"
)
