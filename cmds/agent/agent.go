// Package agent has the wallet holder's commands: run the share and accept
// flows, drain the message inbox and poll it on an interval.
package agent

import (
	"context"
	"encoding/json"
	"io"

	"github.com/vcwallet/wallet-agent/cmds"
)

// Result is the common result type of the agent commands.
type Result struct {
	Data map[string]interface{} `json:"data,omitempty"`
}

func (r *Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// lazyMessenger opens the message channel on first use, so a flow that
// redirects to login never needs a wallet session for it.
type lazyMessenger struct {
	edge cmds.Edge
}

func (m lazyMessenger) Send(
	ctx context.Context,
	toDid string,
	payload interface{},
) (
	json.RawMessage,
	error,
) {
	s, err := m.edge.Messenger(ctx)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, toDid, payload)
}

// cliUI adapts the flow controllers' alert and navigation hooks to a
// command output writer.
type cliUI struct {
	w io.Writer
}

func (u cliUI) Alert(msg string) {
	cmds.Fprintln(u.w, msg)
}

func (u cliUI) Navigate(route string) {
	cmds.Fprintln(u.w, "->", route)
}
