package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var (
	listenCmd = &cobra.Command{
		Use:   "listen",
		Short: "listen for notifications",
		Long: "this command prints the union account and wallet lock state " +
			"notifications of the daemon until interrupted",
		RunE: listen,
	}
)

func listen(_ *cobra.Command, _ []string) error {
	state, err := getState()
	if err != nil {
		return err
	}
	u := url.URL{Scheme: "ws", Host: state["rpcserver"], Path: "/ws"}
	login := state["rpcuser"] + ":" + state["rpcpass"]
	header := http.Header{}
	header.Set(
		"Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(login)),
	)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		return fmt.Errorf("failed to connect to uniond daemon: %v", err)
	}
	defer conn.Close()

	chErr := make(chan error, 1)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				chErr <- err
				return
			}
			fmt.Println(jsonResponse(msg))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-sigChan:
		return conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
	case err := <-chErr:
		if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			fmt.Println("connection closed by daemon")
			return nil
		}
		return err
	}
}
