package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"
)

var (
	colorRed = string("\033[31m")
)

func getClient() (*rpcclient.Client, func(), error) {
	state, err := getState()
	if err != nil {
		return nil, nil, err
	}
	address, ok := state["rpcserver"]
	if !ok || address == "" {
		return nil, nil, fmt.Errorf("set rpcserver with `config set rpcserver`")
	}
	user, pass := state["rpcuser"], state["rpcpass"]
	if user == "" || pass == "" {
		return nil, nil, fmt.Errorf(
			"set rpcuser and rpcpass with `config set rpcuser` and `config set rpcpass`",
		)
	}

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         address,
		User:         user,
		Pass:         pass,
		DisableTLS:   true,
		HTTPPostMode: true,
	}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to uniond daemon: %v", err)
	}

	cleanup := func() { client.Shutdown() }
	return client, cleanup, nil
}

// sendCmd posts the given registered command to the daemon and returns the
// raw result.
func sendCmd(cmd interface{}) (json.RawMessage, error) {
	buf, err := btcjson.MarshalCmd(btcjson.RpcVersion1, 1, cmd)
	if err != nil {
		return nil, err
	}
	var req btcjson.Request
	if err := json.Unmarshal(buf, &req); err != nil {
		return nil, err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return client.RawRequest(req.Method, req.Params)
}

// runCmd sends the command and prints its result, or the message if the
// result is empty.
func runCmd(cmd interface{}, msg string) error {
	result, err := sendCmd(cmd)
	if err != nil {
		return handleErr(err)
	}

	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		fmt.Println(msg)
		return nil
	}
	fmt.Println(jsonResponse(result))
	return nil
}

// handleErr prints the errors returned by the daemon, any other one is
// returned to cobra.
func handleErr(err error) error {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		printErr(rpcErr)
		return nil
	}
	return err
}

func getState() (map[string]string, error) {
	file, err := os.ReadFile(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := writeState(initialState()); err != nil {
			return nil, err
		}
		return initialState(), nil
	}

	data := map[string]string{}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid state file %s: %w", statePath, err)
	}
	return data, nil
}

func setState(partialState map[string]string) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range partialState {
		state[key] = value
	}
	return writeState(state)
}

func writeState(state map[string]string) error {
	dir := filepath.Dir(statePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	}

	buf, _ := json.MarshalIndent(state, "", "  ")
	if err := os.WriteFile(statePath, buf, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func jsonResponse(result json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "  "); err != nil {
		return string(result)
	}
	return buf.String()
}

func printErr(err *btcjson.RPCError) {
	msg := fmt.Sprintf("%s%s (code %d)", colorRed, capitalize(err.Message), err.Code)
	fmt.Fprintln(os.Stderr, msg)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[0:1]) + s[1:]
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
