package jsonrpc_handler

import (
	"context"

	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

type account struct {
	appSvc *application.UnionAccountService
}

func NewAccountHandler(appSvc *application.UnionAccountService) MethodHandler {
	return &account{appSvc}
}

func (a *account) Methods() map[string]Handler {
	return map[string]Handler{
		unionjson.GenKeyMethod:             a.GenKey,
		unionjson.CreateUnionAccountMethod: a.CreateUnionAccount,
		unionjson.ListUnionAccountsMethod:  a.ListUnionAccounts,
		unionjson.GetUnionAccountMethod:    a.GetUnionAccount,
	}
}

func (a *account) GenKey(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*unionjson.GenKeyCmd)

	label := ""
	if c.Label != nil {
		label = *c.Label
	}
	key, err := a.appSvc.GenerateKey(ctx, label)
	if err != nil {
		return nil, err
	}
	return unionjson.GenKeyResult{
		PubKey:  key.PubKey,
		Address: key.Address,
		HDPath:  key.DerivationPath,
		Label:   key.Label,
	}, nil
}

// CreateUnionAccount returns the message of the creation form in case of
// failure. The same message is notified to the websocket clients.
func (a *account) CreateUnionAccount(
	ctx context.Context, cmd interface{},
) (interface{}, error) {
	c := cmd.(*unionjson.CreateUnionAccountCmd)

	numOfKeys := len(c.Keys)
	if c.NKeys != nil {
		numOfKeys = *c.NKeys
	}
	res, err := a.appSvc.CreateUnionAccount(ctx, application.UnionAccountRequest{
		Name:        c.Name,
		NumOfKeys:   numOfKeys,
		Required:    c.NRequired,
		Descriptors: c.Keys,
	})
	if err != nil {
		return nil, localizedError(err)
	}
	return unionjson.CreateUnionAccountResult{
		Address:      res.Address,
		RedeemScript: res.Script,
	}, nil
}

func (a *account) ListUnionAccounts(
	ctx context.Context, _ interface{},
) (interface{}, error) {
	accounts, err := a.appSvc.ListUnionAccounts(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]unionjson.UnionAccountResult, 0, len(accounts))
	for _, account := range accounts {
		res = append(res, parseUnionAccount(account))
	}
	return res, nil
}

func (a *account) GetUnionAccount(
	ctx context.Context, cmd interface{},
) (interface{}, error) {
	c := cmd.(*unionjson.GetUnionAccountCmd)

	account, err := a.appSvc.GetUnionAccount(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	return parseUnionAccount(*account), nil
}

func parseUnionAccount(account application.UnionAccountInfo) unionjson.UnionAccountResult {
	keys := account.PubKeys
	if keys == nil {
		keys = []string{}
	}
	return unionjson.UnionAccountResult{
		Name:         account.Name,
		Address:      account.Address,
		RedeemScript: account.RedeemScript,
		SigsRequired: account.Required,
		Keys:         keys,
		CreatedAt:    account.CreatedAt,
	}
}
