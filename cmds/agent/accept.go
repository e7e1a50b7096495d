package agent

import (
	"context"
	"io"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/flow"
	"github.com/vcwallet/wallet-agent/cmds"
)

// AcceptCmd runs the credential accept flow for one offered credential
// address.
type AcceptCmd struct {
	cmds.Cmd

	// VCURL is the address the offered credential is fetched from.
	VCURL string

	// Reject discards the offer instead of saving it.
	Reject bool
}

func (c AcceptCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.VCURL == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c AcceptCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "accept")

	return c.Cmd.Exec(func(edge cmds.Edge) (cmds.Result, error) {
		return c.exec(w, edge)
	})
}

func (c AcceptCmd) exec(w io.Writer, edge cmds.Edge) (r cmds.Result, err error) {
	defer err2.Handle(&err)

	ctx := context.Background()

	f := flow.NewAccept(c.VCURL)
	f.Provider = edge.Provider()
	f.Directory = edge.CloudWallet()
	f.Alerter = cliUI{w}
	f.Navigator = cliUI{w}
	f.Pending = edge.Store

	state := f.Start(ctx)
	if state != flow.AcceptShowingCredential {
		return &Result{Data: map[string]interface{}{
			"state": state.String(),
		}}, nil
	}

	cmds.Fprintln(w, "offered:", f.Credential().DisplayLabel())

	if c.Reject {
		f.Reject()
		return &Result{Data: map[string]interface{}{
			"state": "Rejected",
		}}, nil
	}

	try.To(f.Save(ctx))

	return &Result{Data: map[string]interface{}{
		"state": "Saved",
	}}, nil
}
