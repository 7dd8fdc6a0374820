package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rpcServer string
	rpcUser   string
	rpcPass   string

	configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "edit single CLI config entry",
		Long: "this command lets you customize a single configuration entry of " +
			"the union CLI",
		Args: cobra.ExactArgs(2),
		RunE: configSet,
	}
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "edit multiple CLI config entries",
		Long: "this command lets you customize multiple configuration entries of " +
			"the union CLI",
		RunE: configInit,
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "print or edit CLI configuration",
		Long: "this command lets you show or customize the configuration of " +
			"the union CLI",
		RunE: configPrint,
	}
)

func init() {
	configInitCmd.Flags().StringVar(
		&rpcServer, "rpcserver", initialState()["rpcserver"],
		"address of the uniond wallet to connect to",
	)
	configInitCmd.Flags().StringVar(
		&rpcUser, "rpcuser", "", "username for rpc authentication",
	)
	configInitCmd.Flags().StringVar(
		&rpcPass, "rpcpass", "", "password for rpc authentication",
	)
	configCmd.AddCommand(configSetCmd, configInitCmd)
}

func initialState() map[string]string {
	return map[string]string{
		"rpcserver": "localhost:18300",
		"rpcuser":   "",
		"rpcpass":   "",
	}
}

func configSet(_ *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Prevent setting anything that is not part of the state.
	if _, ok := initialState()[key]; !ok {
		return fmt.Errorf("unknown config entry %s", key)
	}

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}

func configInit(_ *cobra.Command, _ []string) error {
	if _, err := getState(); err != nil {
		return err
	}

	if err := setState(map[string]string{
		"rpcserver": rpcServer,
		"rpcuser":   rpcUser,
		"rpcpass":   rpcPass,
	}); err != nil {
		return err
	}

	fmt.Println("CLI has been configured")
	return nil
}

func configPrint(_ *cobra.Command, _ []string) error {
	state, err := getState()
	if err != nil {
		return err
	}

	buf, _ := json.MarshalIndent(state, "", "   ")
	fmt.Println(string(buf))
	return nil
}
