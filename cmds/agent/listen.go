package agent

import (
	"context"
	"io"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/msg"
	"github.com/vcwallet/wallet-agent/cmds"
)

// NotifyChan receives every inbox message the listener drains.
type NotifyChan chan msg.Message

// ListenCmd polls the message channel and pushes every arriving message to
// NotifyChan. The poll runs every Interval seconds, or once a day at At
// when that is set. Drained messages are removed from the channel.
type ListenCmd struct {
	cmds.Cmd
	NotifyChan

	// Interval is the poll interval in seconds.
	Interval int

	// At is a daily drain time as HH:MM, overrides Interval when set.
	At string
}

func (c ListenCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.At != "" {
		return cmds.ValidateTime(c.At)
	}
	if c.Interval <= 0 {
		return cmds.ErrInvalid
	}
	return nil
}

func (c ListenCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "listen")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		ctx := context.Background()
		messenger := try.To1(edge.Messenger(ctx))

		cron := gocron.NewScheduler(time.Now().Location())
		if c.At != "" {
			try.To1(cron.Every(1).Day().At(c.At).Do(func() {
				c.drain(ctx, w, messenger)
			}))
		} else {
			try.To1(cron.Every(c.Interval).Seconds().Do(func() {
				c.drain(ctx, w, messenger)
			}))
		}

		cron.StartBlocking()
		return &Result{}, nil
	})
}

func (c ListenCmd) drain(ctx context.Context, w io.Writer, messenger *msg.Service) {
	defer err2.Catch(func(err error) {
		glog.Warningln("inbox drain:", err)
	})

	msgs := try.To1(messenger.GetAll(ctx))
	for _, m := range msgs {
		cmds.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.FromDid, m.Message)
		if c.NotifyChan != nil {
			c.NotifyChan <- m
		}
		try.To(messenger.Delete(ctx, m.ID))
	}
}
