package application

import (
	"errors"
	"fmt"
)

const (
	Unknown FailureReason = iota
	InputMissing
	KeyCountMismatch
	KeyInvalid
	KeyResolutionFailed
	NotExactlyOneOwnKey
	DuplicateKey
	InsufficientKeys
	TooManyKeys
	ScriptTooLarge
	NotP2SH
	DuplicateAddress
	AddMultiAddressFailed
	NotYours
	PasswordError
)

var (
	ErrWalletAlreadyInitialized = fmt.Errorf("wallet is already initialized")
	ErrWalletNotInitialized     = fmt.Errorf("wallet is not initialized")
	ErrWalletLocked             = fmt.Errorf("wallet is locked")
	ErrWalletUnlocked           = fmt.Errorf("wallet must be locked")
	ErrInvalidAddress           = fmt.Errorf("invalid address")
	ErrAddressIsScript          = fmt.Errorf("address can't be script")
	ErrAddressNotKey            = fmt.Errorf("address does not refer to key")
	ErrKeyNotOwned              = fmt.Errorf("address does not refer to an owned key")
	ErrInvalidPrivateKey        = fmt.Errorf("invalid private key")

	reasonString = map[FailureReason]string{
		Unknown:               "Unknown",
		InputMissing:          "InputMissing",
		KeyCountMismatch:      "KeyCountMismatch",
		KeyInvalid:            "KeyInvalid",
		KeyResolutionFailed:   "KeyResolutionFailed",
		NotExactlyOneOwnKey:   "NotExactlyOneOwnKey",
		DuplicateKey:          "DuplicateKey",
		InsufficientKeys:      "InsufficientKeys",
		TooManyKeys:           "TooManyKeys",
		ScriptTooLarge:        "ScriptTooLarge",
		NotP2SH:               "NotP2SH",
		DuplicateAddress:      "DuplicateAddress",
		AddMultiAddressFailed: "AddMultiAddressFailed",
		NotYours:              "NotYours",
		PasswordError:         "PasswordError",
	}

	// User facing messages of the union account creation form.
	reasonMessage = map[FailureReason]string{
		InputMissing:          "input info",
		KeyCountMismatch:      "input info",
		KeyInvalid:            "Pubkey is valid!",
		KeyResolutionFailed:   "Pubkey is valid!",
		NotExactlyOneOwnKey:   "Please make sure that there is only one of your own public key.",
		DuplicateKey:          "Publickey repetition",
		InsufficientKeys:      "nRequired or strPubkeys size is valid!",
		TooManyKeys:           "nRequired or strPubkeys size is valid!",
		ScriptTooLarge:        "CScript size too large!",
		NotP2SH:               "script is not p2sh script!",
		DuplicateAddress:      "Address duplication",
		AddMultiAddressFailed: "AddMultiAddress failed!",
		NotYours:              "MultiAdd is not yours",
		PasswordError:         "Password error.",
	}

	// User facing messages of the address to public key lookup.
	errMessage = map[error]string{
		ErrInvalidAddress:  "address is valid!",
		ErrAddressIsScript: "address can't be Script!",
		ErrKeyNotOwned:     "GetPubKey faild!",
	}
)

// FailureReason tags every way a union account creation attempt can fail.
type FailureReason int

func (r FailureReason) String() string {
	if s, ok := reasonString[r]; ok {
		return s
	}
	return reasonString[Unknown]
}

// Message returns the localized message shown to the user.
func (r FailureReason) Message() string {
	return reasonMessage[r]
}

// Failure is the error returned by the union account workflow and its
// components.
type Failure struct {
	Reason FailureReason
	Detail string
	Err    error
}

func newFailure(reason FailureReason, err error, format string, a ...interface{}) *Failure {
	return &Failure{
		Reason: reason,
		Detail: fmt.Sprintf(format, a...),
		Err:    err,
	}
}

func (f *Failure) Error() string {
	if f.Detail != "" {
		return f.Detail
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return f.Reason.String()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message returns the localized message for the failure. Unknown failures
// carry their own message.
func (f *Failure) Message() string {
	if msg := f.Reason.Message(); msg != "" {
		return msg
	}
	return fmt.Sprintf("create error %s", f.Error())
}

// ReasonOf returns the failure reason of the given error, or Unknown if it
// is not a *Failure.
func ReasonOf(err error) FailureReason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return Unknown
}

// Message returns the localized message for the given error, or the error
// string if none exists.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	for target, msg := range errMessage {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}
