package agent

import (
	"context"
	"io"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/cmds"
)

// MessagesCmd lists the wallet's pending channel messages, decrypted.
type MessagesCmd struct {
	cmds.Cmd
}

func (c MessagesCmd) Validate() error {
	return c.Cmd.Validate()
}

func (c MessagesCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "messages")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		ctx := context.Background()
		messenger := try.To1(edge.Messenger(ctx))
		msgs := try.To1(messenger.GetAll(ctx))

		for _, m := range msgs {
			cmds.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.FromDid, m.Message)
		}
		return &Result{Data: map[string]interface{}{
			"count": len(msgs),
		}}, nil
	})
}

// RemoveMsgCmd deletes one message from the channel by id.
type RemoveMsgCmd struct {
	cmds.Cmd

	ID string
}

func (c RemoveMsgCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c RemoveMsgCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "messages rm")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		ctx := context.Background()
		messenger := try.To1(edge.Messenger(ctx))
		try.To(messenger.Delete(ctx, c.ID))

		cmds.Fprintln(w, "removed", c.ID)
		return &Result{}, nil
	})
}
