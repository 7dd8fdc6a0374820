package jsonrpc_interface

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	appconfig "github.com/vulpemventures/uniond/internal/app-config"
	jsonrpc_handler "github.com/vulpemventures/uniond/internal/interfaces/jsonrpc/handler"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

const (
	rpcUser  = "union"
	rpcPass  = "rpcpass"
	password = "Sup3rS3cr3tP4ssw0rd!"
	// Compressed serialization of the secp256k1 generator.
	foreignKey = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

type rpcReply struct {
	Result json.RawMessage   `json:"result"`
	Error  *btcjson.RPCError `json:"error"`
	ID     *json.RawMessage  `json:"id"`
}

type testServer struct {
	*httptest.Server
	registry *prometheus.Registry
}

func TestRPCServerRequests(t *testing.T) {
	srv := newTestServer(t)

	t.Run("not a post", func(t *testing.T) {
		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		reply := srv.post(t, []byte("not json"))
		require.Equal(t, "null", string(reply.Result))
		require.NotNil(t, reply.Error)
		require.Equal(t, btcjson.ErrRPCParse.Code, reply.Error.Code)
	})

	tests := []struct {
		name         string
		method       string
		params       []interface{}
		expectedCode btcjson.RPCErrorCode
	}{
		{"unknown method", "getblockcount", nil, btcjson.ErrRPCMethodNotFound.Code},
		{"unregistered method", "dumpprivkey", []interface{}{"addr"}, btcjson.ErrRPCMethodNotFound.Code},
		{"too many params", "walletlock", []interface{}{"unexpected"}, btcjson.ErrRPCType},
		{"too few params", "createmultisig", []interface{}{1}, btcjson.ErrRPCType},
		{"wrong param type", "createmultisig", []interface{}{"one", []string{foreignKey}}, btcjson.ErrRPCType},
		{"wallet not initialized", "walletlock", nil, btcjson.ErrRPCWallet},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			reply := srv.call(t, tt.method, tt.params...)
			require.NotNil(t, reply.Error)
			require.Equal(t, tt.expectedCode, reply.Error.Code)
			require.Equal(t, "null", string(reply.Result))
			require.Equal(t, "1", string(*reply.ID))
		})
	}
}

func TestRPCServerUnionAccountFlow(t *testing.T) {
	srv := newTestServer(t)

	var mnemonic string
	srv.mustCall(t, &mnemonic, unionjson.GenSeedMethod)
	require.Len(t, strings.Fields(mnemonic), 24)

	srv.mustCall(t, nil, unionjson.InitWalletMethod, mnemonic, password)

	var info unionjson.GetWalletInfoResult
	srv.mustCall(t, &info, "getwalletinfo")
	require.True(t, info.IsInitialized)
	require.False(t, info.IsUnlocked)
	require.Equal(t, "bitcoin-regtest", info.Network)
	require.Empty(t, info.RootPath)

	reply := srv.call(t, "walletpassphrase", "wrong", 0)
	require.Equal(t, btcjson.ErrRPCWalletPassphraseIncorrect, reply.Error.Code)

	reply = srv.call(t, unionjson.GenKeyMethod)
	require.Equal(t, btcjson.ErrRPCWalletUnlockNeeded, reply.Error.Code)

	srv.mustCall(t, nil, "walletpassphrase", password, 0)

	var key unionjson.GenKeyResult
	srv.mustCall(t, &key, unionjson.GenKeyMethod, "alice")
	require.Equal(t, "m/44'/1'/0'/0/0", key.HDPath)
	require.Equal(t, "alice", key.Label)

	var pubkey string
	srv.mustCall(t, &pubkey, unionjson.AddrToPubKeyMethod, key.Address)
	require.Equal(t, key.PubKey, pubkey)

	var account unionjson.CreateUnionAccountResult
	srv.mustCall(
		t, &account, unionjson.CreateUnionAccountMethod,
		"shared", 2, []string{key.Address, foreignKey},
	)
	require.NotEmpty(t, account.Address)
	require.NotEmpty(t, account.RedeemScript)

	var accounts []unionjson.UnionAccountResult
	srv.mustCall(t, &accounts, unionjson.ListUnionAccountsMethod)
	require.Len(t, accounts, 1)
	require.Equal(t, "shared", accounts[0].Name)
	require.Equal(t, 2, accounts[0].SigsRequired)
	require.Equal(t, []string{key.PubKey, foreignKey}, accounts[0].Keys)

	var validation unionjson.ValidateAddressResult
	srv.mustCall(t, &validation, "validateaddress", account.Address)
	require.True(t, validation.IsValid)
	require.True(t, *validation.IsMine)
	require.True(t, *validation.IsScript)
	require.Equal(t, "shared", validation.Account)
	require.Equal(t, account.RedeemScript, validation.Hex)
	require.Equal(t, 2, *validation.SigsRequired)

	var multisig btcjson.CreateMultiSigResult
	srv.mustCall(
		t, &multisig, "createmultisig", 2, []string{key.Address, foreignKey},
	)
	require.Equal(t, account.Address, multisig.Address)
	require.Equal(t, account.RedeemScript, multisig.RedeemScript)

	var notValid unionjson.ValidateAddressResult
	srv.mustCall(t, &notValid, "validateaddress", "not an address")
	require.Equal(t, unionjson.ValidateAddressResult{}, notValid)

	var sig string
	srv.mustCall(t, &sig, "signmessage", key.Address, "union")
	var verified bool
	srv.mustCall(t, &verified, "verifymessage", key.Address, sig, "union")
	require.True(t, verified)

	failures := []struct {
		name            string
		method          string
		params          []interface{}
		expectedCode    btcjson.RPCErrorCode
		expectedMessage string
	}{
		{
			name:            "duplicate account",
			method:          unionjson.CreateUnionAccountMethod,
			params:          []interface{}{"other", 2, []string{key.Address, foreignKey}},
			expectedCode:    btcjson.ErrRPCInvalidAddressOrKey,
			expectedMessage: "Address duplication",
		},
		{
			name:            "duplicate key",
			method:          unionjson.CreateUnionAccountMethod,
			params:          []interface{}{"dup", 2, []string{key.Address, key.Address}},
			expectedCode:    btcjson.ErrRPCInvalidAddressOrKey,
			expectedMessage: "Publickey repetition",
		},
		{
			name:            "missing slot",
			method:          unionjson.CreateUnionAccountMethod,
			params:          []interface{}{"empty", 1, []string{key.Address, ""}},
			expectedCode:    btcjson.ErrRPCType,
			expectedMessage: "input info",
		},
		{
			name:            "invalid multisig key",
			method:          "createmultisig",
			params:          []interface{}{1, []string{foreignKey, "02ffff"}},
			expectedCode:    btcjson.ErrRPCInvalidAddressOrKey,
			expectedMessage: "Invalid public key: 02ffff",
		},
		{
			name:            "not enough keys",
			method:          "createmultisig",
			params:          []interface{}{3, []string{foreignKey}},
			expectedCode:    btcjson.ErrRPCType,
			expectedMessage: "not enough keys supplied (got 1 keys, but need at least 3 to redeem)",
		},
		{
			name:            "invalid address to pubkey",
			method:          unionjson.AddrToPubKeyMethod,
			params:          []interface{}{"not an address"},
			expectedCode:    btcjson.ErrRPCInvalidAddressOrKey,
			expectedMessage: "address is valid!",
		},
		{
			name:            "script address to pubkey",
			method:          unionjson.AddrToPubKeyMethod,
			params:          []interface{}{account.Address},
			expectedCode:    btcjson.ErrRPCInvalidAddressOrKey,
			expectedMessage: "address can't be Script!",
		},
		{
			name:            "verify invalid address",
			method:          "verifymessage",
			params:          []interface{}{"not an address", sig, "union"},
			expectedCode:    btcjson.ErrRPCType,
			expectedMessage: "Invalid address",
		},
		{
			name:            "verify script address",
			method:          "verifymessage",
			params:          []interface{}{account.Address, sig, "union"},
			expectedCode:    btcjson.ErrRPCType,
			expectedMessage: "Address does not refer to key",
		},
		{
			name:            "verify malformed signature",
			method:          "verifymessage",
			params:          []interface{}{key.Address, "%%%", "union"},
			expectedCode:    btcjson.ErrRPCType,
			expectedMessage: "Malformed base64 encoding",
		},
		{
			name:            "sign with invalid private key",
			method:          "signmessagewithprivkey",
			params:          []interface{}{"not a wif", "union"},
			expectedCode:    btcjson.ErrRPCInvalidAddressOrKey,
			expectedMessage: "Invalid private key",
		},
		{
			name:         "unknown account",
			method:       unionjson.GetUnionAccountMethod,
			params:       []interface{}{"unknown"},
			expectedCode: btcjson.ErrRPCWalletInvalidAccountName,
		},
		{
			name:         "change password while unlocked",
			method:       "walletpassphrasechange",
			params:       []interface{}{password, "newpassword"},
			expectedCode: btcjson.ErrRPCWallet,
		},
	}
	for _, tt := range failures {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			reply := srv.call(t, tt.method, tt.params...)
			require.NotNil(t, reply.Error)
			require.Equal(t, tt.expectedCode, reply.Error.Code)
			if tt.expectedMessage != "" {
				require.Equal(t, tt.expectedMessage, reply.Error.Message)
			}
		})
	}

	srv.mustCall(t, nil, "walletlock")
	reply = srv.call(t, "signmessage", key.Address, "union")
	require.Equal(t, btcjson.ErrRPCWalletUnlockNeeded, reply.Error.Code)

	require.Equal(t, 1.0, srv.requestCount(t, unionjson.GenSeedMethod, "0"))
	require.Equal(t, 2.0, srv.requestCount(
		t, unionjson.CreateUnionAccountMethod, "-5",
	))
}

func TestRPCServerWithRPCClient(t *testing.T) {
	srv := newTestServer(t)

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         strings.TrimPrefix(srv.URL, "http://"),
		User:         rpcUser,
		Pass:         rpcPass,
		DisableTLS:   true,
		HTTPPostMode: true,
	}, nil)
	require.NoError(t, err)
	defer client.Shutdown()

	result, err := client.RawRequest("getwalletinfo", nil)
	require.NoError(t, err)

	var info unionjson.GetWalletInfoResult
	require.NoError(t, json.Unmarshal(result, &info))
	require.False(t, info.IsInitialized)

	_, err = client.RawRequest("getblockcount", nil)
	require.Error(t, err)
	rpcErr, ok := err.(*btcjson.RPCError)
	require.True(t, ok)
	require.Equal(t, btcjson.ErrRPCMethodNotFound.Code, rpcErr.Code)
}

func TestRPCServerDuplicateMethods(t *testing.T) {
	appConfig := newTestAppConfig(t)
	walletHandler := jsonrpc_handler.NewWalletHandler(appConfig.WalletService())

	_, err := newRPCServer(nil, rpcUser, rpcPass, walletHandler, walletHandler)
	require.Error(t, err)

	_, err = newRPCServer(nil, rpcUser, "", walletHandler)
	require.Error(t, err)
}

func TestRPCServerAuth(t *testing.T) {
	srv := newTestServer(t)
	body, err := json.Marshal(btcjson.Request{
		Jsonrpc: btcjson.RpcVersion1, ID: 1, Method: "getwalletinfo",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		user string
		pass string
	}{
		{"no credentials", "", ""},
		{"wrong password", rpcUser, "wrong"},
		{"wrong user", "other", rpcPass},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader(body))
			require.NoError(t, err)
			if tt.user != "" {
				req.SetBasicAuth(tt.user, tt.pass)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.NotEmpty(t, resp.Header.Get("WWW-Authenticate"))
		})
	}

	t.Run("rpc client with wrong password", func(t *testing.T) {
		client, err := rpcclient.New(&rpcclient.ConnConfig{
			Host:         strings.TrimPrefix(srv.URL, "http://"),
			User:         rpcUser,
			Pass:         "wrong",
			DisableTLS:   true,
			HTTPPostMode: true,
		}, nil)
		require.NoError(t, err)
		defer client.Shutdown()

		_, err = client.RawRequest("getwalletinfo", nil)
		require.Error(t, err)
	})

	reply := srv.post(t, body)
	require.Nil(t, reply.Error)
	require.Equal(t, 1.0, srv.requestCount(t, "getwalletinfo", "0"))
}

func TestRPCServerWithAuth(t *testing.T) {
	rpcServer, err := newRPCServer(nil, rpcUser, rpcPass)
	require.NoError(t, err)

	srv := httptest.NewServer(rpcServer.withAuth(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.SetBasicAuth(rpcUser, rpcPass)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func newTestAppConfig(t *testing.T) *appconfig.AppConfig {
	appConfig := &appconfig.AppConfig{
		RootPath:          "m/44'/1'",
		Network:           "bitcoin-regtest",
		RepoManagerType:   "inmemory",
		MetricsRegisterer: prometheus.NewRegistry(),
	}
	require.NoError(t, appConfig.Validate())
	return appConfig
}

func newTestServer(t *testing.T) *testServer {
	appConfig := newTestAppConfig(t)
	registry := prometheus.NewRegistry()

	rpcServer, err := newRPCServer(
		registry, rpcUser, rpcPass,
		jsonrpc_handler.NewWalletHandler(appConfig.WalletService()),
		jsonrpc_handler.NewAccountHandler(appConfig.UnionAccountService()),
		jsonrpc_handler.NewUtilHandler(appConfig.UtilService()),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(rpcServer)
	t.Cleanup(srv.Close)
	return &testServer{srv, registry}
}

func (s *testServer) post(t *testing.T, body []byte) rpcReply {
	req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(rpcUser, rpcPass)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply rpcReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	return reply
}

func (s *testServer) call(t *testing.T, method string, params ...interface{}) rpcReply {
	rawParams := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		buf, err := json.Marshal(param)
		require.NoError(t, err)
		rawParams = append(rawParams, buf)
	}
	body, err := json.Marshal(btcjson.Request{
		Jsonrpc: "1.0",
		ID:      1,
		Method:  method,
		Params:  rawParams,
	})
	require.NoError(t, err)
	return s.post(t, body)
}

func (s *testServer) mustCall(
	t *testing.T, result interface{}, method string, params ...interface{},
) {
	reply := s.call(t, method, params...)
	require.Nil(t, reply.Error, "%s: %v", method, reply.Error)
	if result != nil {
		require.NoError(t, json.Unmarshal(reply.Result, result))
	}
}

func (s *testServer) requestCount(t *testing.T, method, code string) float64 {
	families, err := s.registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "uniond_rpc_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := make(map[string]string)
			for _, label := range metric.GetLabel() {
				labels[label.GetName()] = label.GetValue()
			}
			if labels["method"] == method && labels["code"] == code {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
