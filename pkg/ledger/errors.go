package ledger

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/repositories"
)

type ErrAlreadyExists struct {
}

func (e *ErrAlreadyExists) Error() string {
	return "character already exists"
}

func IsAlreadyExists(err error) bool {
	var alreadyExists *ErrAlreadyExists
	return errors.As(err, &alreadyExists)
}

// IsNotFound reports whether an error means the identity has no
// character. The repository's not-found error passes through the ledger
// unchanged.
func IsNotFound(err error) bool {
	return repositories.IsNotFound(err)
}

type ErrUnknownSkill struct {
	Skill string
}

func (e *ErrUnknownSkill) Error() string {
	return fmt.Sprintf("unknown skill: %s", e.Skill)
}

func IsUnknownSkill(err error) bool {
	var unknownSkill *ErrUnknownSkill
	return errors.As(err, &unknownSkill)
}

type ErrUnknownItem struct {
	Item string
}

func (e *ErrUnknownItem) Error() string {
	return fmt.Sprintf("unknown item: %s", e.Item)
}

func IsUnknownItem(err error) bool {
	var unknownItem *ErrUnknownItem
	return errors.As(err, &unknownItem)
}

type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func IsInvalidInput(err error) bool {
	var invalidInput *ErrInvalidInput
	return errors.As(err, &invalidInput)
}

type ErrInsufficientFunds struct {
	Needed    int
	Available int
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Needed, e.Available)
}

func IsInsufficientFunds(err error) bool {
	var insufficientFunds *ErrInsufficientFunds
	return errors.As(err, &insufficientFunds)
}
