package jsonrpc_handler

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/pkg/unionjson"
	"github.com/vulpemventures/uniond/pkg/wallet/message"
)

var (
	errInvalidAddress = btcjson.NewRPCError(btcjson.ErrRPCType, "Invalid address")
	errAddressNotKey  = btcjson.NewRPCError(
		btcjson.ErrRPCType, "Address does not refer to key",
	)
	errMalformedSignature = btcjson.NewRPCError(
		btcjson.ErrRPCType, "Malformed base64 encoding",
	)
	errInvalidPrivateKey = btcjson.NewRPCError(
		btcjson.ErrRPCInvalidAddressOrKey, "Invalid private key",
	)
	errPrivateKeyNotAvailable = btcjson.NewRPCError(
		btcjson.ErrRPCWallet, "Private key not available",
	)
	errUnlockNeeded = btcjson.NewRPCError(
		btcjson.ErrRPCWalletUnlockNeeded,
		"Error: Please enter the wallet passphrase with walletpassphrase first.",
	)

	messageErrors = []struct {
		err    error
		rpcErr *btcjson.RPCError
	}{
		{application.ErrInvalidAddress, errInvalidAddress},
		{application.ErrAddressNotKey, errAddressNotKey},
		{message.ErrMalformedSignature, errMalformedSignature},
		{application.ErrInvalidPrivateKey, errInvalidPrivateKey},
		{application.ErrKeyNotOwned, errPrivateKeyNotAvailable},
		{application.ErrWalletLocked, errUnlockNeeded},
	}
)

type util struct {
	appSvc *application.UtilService
}

func NewUtilHandler(appSvc *application.UtilService) MethodHandler {
	return &util{appSvc}
}

func (u *util) Methods() map[string]Handler {
	return map[string]Handler{
		"validateaddress":            u.ValidateAddress,
		"createmultisig":             u.CreateMultisig,
		"verifymessage":              u.VerifyMessage,
		"signmessage":                u.SignMessage,
		"signmessagewithprivkey":     u.SignMessageWithPrivKey,
		unionjson.AddrToPubKeyMethod: u.AddrToPubKey,
	}
}

func (u *util) ValidateAddress(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.ValidateAddressCmd)

	validation, err := u.appSvc.ValidateAddress(ctx, c.Address)
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		return unionjson.ValidateAddressResult{}, nil
	}
	return unionjson.ValidateAddressResult{
		IsValid:      true,
		Address:      validation.Address,
		ScriptPubKey: validation.ScriptPubKey,
		IsMine:       &validation.IsMine,
		IsWatchOnly:  &validation.IsWatchOnly,
		IsScript:     validation.IsScript,
		Script:       validation.Script,
		Hex:          validation.Hex,
		Addresses:    validation.Addresses,
		SigsRequired: validation.SigsRequired,
		PubKey:       validation.PubKey,
		IsCompressed: validation.IsCompressed,
		Account:      validation.Account,
		HDKeyPath:    validation.HDKeyPath,
	}, nil
}

func (u *util) CreateMultisig(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.CreateMultisigCmd)

	info, err := u.appSvc.CreateMultisig(ctx, c.NRequired, c.Keys)
	if err != nil {
		return nil, err
	}
	return btcjson.CreateMultiSigResult{
		Address:      info.Address,
		RedeemScript: info.RedeemScript,
	}, nil
}

func (u *util) VerifyMessage(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.VerifyMessageCmd)

	ok, err := u.appSvc.VerifyMessage(ctx, c.Address, c.Signature, c.Message)
	if err != nil {
		return nil, messageError(err)
	}
	return ok, nil
}

func (u *util) SignMessage(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.SignMessageCmd)

	sig, err := u.appSvc.SignMessage(ctx, c.Address, c.Message)
	if err != nil {
		return nil, messageError(err)
	}
	return sig, nil
}

func (u *util) SignMessageWithPrivKey(
	ctx context.Context, cmd interface{},
) (interface{}, error) {
	c := cmd.(*btcjson.SignMessageWithPrivKeyCmd)

	sig, err := u.appSvc.SignMessageWithPrivKey(ctx, c.PrivKey, c.Message)
	if err != nil {
		return nil, messageError(err)
	}
	return sig, nil
}

func (u *util) AddrToPubKey(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*unionjson.AddrToPubKeyCmd)

	pubkey, err := u.appSvc.AddressToPubKey(ctx, c.Address)
	if err != nil {
		return nil, localizedError(err)
	}
	return pubkey, nil
}

func messageError(err error) error {
	for _, e := range messageErrors {
		if errors.Is(err, e.err) {
			return e.rpcErr
		}
	}
	return err
}
