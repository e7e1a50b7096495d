package agent

import (
	"context"
	"fmt"
	"io"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/flow"
	"github.com/vcwallet/wallet-agent/agent/sdk"
	"github.com/vcwallet/wallet-agent/cmds"
)

// ShareCmd runs the credential share flow for one share request token. The
// disclosed credential is picked by its index in the listing.
type ShareCmd struct {
	cmds.Cmd

	// Token is the credential share request token, usually taken from
	// the requester's QR code or link.
	Token string

	// Index picks the disclosed credential from the eligible listing.
	Index int
}

func (c ShareCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Token == "" {
		return cmds.ErrInvalid
	}
	if c.Index < 0 {
		return cmds.ErrInvalid
	}
	return nil
}

func (c ShareCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "share")

	return c.Cmd.Exec(func(edge cmds.Edge) (cmds.Result, error) {
		return c.exec(w, edge)
	})
}

func (c ShareCmd) exec(w io.Writer, edge cmds.Edge) (r cmds.Result, err error) {
	defer err2.Handle(&err)

	ctx := context.Background()

	f := flow.NewShare(c.Token)
	f.Provider = edge.Provider()
	f.Codec = sdk.Codec{}
	f.Messenger = lazyMessenger{edge}
	f.Alerter = cliUI{w}
	f.Navigator = cliUI{w}
	f.Pending = edge.Store

	state := f.Start(ctx)
	if state != flow.ShareAwaitingSelection {
		return &Result{Data: map[string]interface{}{
			"state": state.String(),
		}}, nil
	}

	creds := f.Credentials()
	if c.Index >= len(creds) {
		return nil, fmt.Errorf(
			"credential index %d out of range, have %d",
			c.Index, len(creds))
	}
	cmds.Fprintln(w, "sharing:", creds[c.Index].DisplayLabel())

	f.Select(creds[c.Index])
	result := try.To1(f.Confirm(ctx))

	return &Result{Data: map[string]interface{}{
		"state":         result.State.String(),
		"responseToken": result.ResponseToken,
	}}, nil
}
