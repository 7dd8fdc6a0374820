package jsonrpc_handler

import (
	"errors"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/pkg/wallet/message"
)

var (
	errCodeBySentinel = []struct {
		err  error
		code btcjson.RPCErrorCode
	}{
		{application.ErrWalletLocked, btcjson.ErrRPCWalletUnlockNeeded},
		{domain.ErrWalletInvalidPassword, btcjson.ErrRPCWalletPassphraseIncorrect},
		{application.ErrWalletNotInitialized, btcjson.ErrRPCWallet},
		{domain.ErrWalletNotInitialized, btcjson.ErrRPCWallet},
		{application.ErrWalletAlreadyInitialized, btcjson.ErrRPCWallet},
		{application.ErrWalletUnlocked, btcjson.ErrRPCWallet},
		{domain.ErrWalletMissingMnemonic, btcjson.ErrRPCInvalidParameter},
		{domain.ErrWalletMissingPassword, btcjson.ErrRPCInvalidParameter},
		{domain.ErrWalletMaxKeyNumberReached, btcjson.ErrRPCWallet},
		{domain.ErrUnionAccountNotFound, btcjson.ErrRPCWalletInvalidAccountName},
		{application.ErrInvalidAddress, btcjson.ErrRPCInvalidAddressOrKey},
		{application.ErrAddressIsScript, btcjson.ErrRPCInvalidAddressOrKey},
		{application.ErrAddressNotKey, btcjson.ErrRPCInvalidAddressOrKey},
		{application.ErrKeyNotOwned, btcjson.ErrRPCInvalidAddressOrKey},
		{application.ErrInvalidPrivateKey, btcjson.ErrRPCInvalidAddressOrKey},
		{message.ErrMalformedSignature, btcjson.ErrRPCInvalidAddressOrKey},
	}

	errCodeByReason = map[application.FailureReason]btcjson.RPCErrorCode{
		application.InputMissing:          btcjson.ErrRPCType,
		application.KeyCountMismatch:      btcjson.ErrRPCType,
		application.InsufficientKeys:      btcjson.ErrRPCType,
		application.TooManyKeys:           btcjson.ErrRPCType,
		application.KeyInvalid:            btcjson.ErrRPCInvalidAddressOrKey,
		application.KeyResolutionFailed:   btcjson.ErrRPCInvalidAddressOrKey,
		application.NotExactlyOneOwnKey:   btcjson.ErrRPCInvalidAddressOrKey,
		application.DuplicateKey:          btcjson.ErrRPCInvalidAddressOrKey,
		application.ScriptTooLarge:        btcjson.ErrRPCInvalidAddressOrKey,
		application.NotP2SH:               btcjson.ErrRPCInvalidAddressOrKey,
		application.DuplicateAddress:      btcjson.ErrRPCInvalidAddressOrKey,
		application.NotYours:              btcjson.ErrRPCInvalidAddressOrKey,
		application.AddMultiAddressFailed: btcjson.ErrRPCWallet,
		application.PasswordError:         btcjson.ErrRPCWalletUnlockNeeded,
	}
)

// ErrorCode returns the JSON-RPC error code of the given error.
func ErrorCode(err error) btcjson.RPCErrorCode {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code
	}
	var failure *application.Failure
	if errors.As(err, &failure) {
		if code, ok := errCodeByReason[failure.Reason]; ok {
			return code
		}
		return btcjson.ErrRPCMisc
	}
	for _, e := range errCodeBySentinel {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return btcjson.ErrRPCMisc
}

// ToRPCError converts any error returned by a handler to a JSON-RPC error.
// RPC errors are returned as they are.
func ToRPCError(err error) *btcjson.RPCError {
	if err == nil {
		return nil
	}
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return btcjson.NewRPCError(ErrorCode(err), err.Error())
}

// localizedError keeps the code of err and replaces its message with the one
// shown to the user.
func localizedError(err error) *btcjson.RPCError {
	return btcjson.NewRPCError(ErrorCode(err), application.Message(err))
}
