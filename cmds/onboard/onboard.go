// Package onboard has the account lifecycle commands of the cloud wallet:
// signup with email confirmation, login and logout.
package onboard

import (
	"context"
	"encoding/json"
	"io"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/sdk"
	"github.com/vcwallet/wallet-agent/cmds"
)

type Result struct {
	Data map[string]interface{} `json:"data,omitempty"`
}

func (r *Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// SignUpCmd creates a cloud wallet account. The signup token printed by the
// command goes back in with ConfirmCmd together with the emailed code.
type SignUpCmd struct {
	cmds.Cmd

	Username string
	Password string
}

func (c SignUpCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Username == "" || c.Password == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c SignUpCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "signup")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		token := try.To1(edge.CloudWallet().SignUp(
			context.Background(), c.Username, c.Password))

		cmds.Fprintln(w, token)
		return &Result{Data: map[string]interface{}{
			"token": token,
		}}, nil
	})
}

// ConfirmCmd finishes the signup with the emailed confirmation code and
// initializes the wallet key seed.
type ConfirmCmd struct {
	cmds.Cmd

	Token string
	Code  string
}

func (c ConfirmCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Token == "" || c.Code == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c ConfirmCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "confirm signup")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		ctx := context.Background()
		try.To(edge.CloudWallet().ConfirmSignUp(ctx, c.Token, c.Code))

		// a fresh account gets a fresh wallet seed
		seed := try.To1(edge.Store.Seed())
		if len(seed) == 0 {
			try.To(edge.Store.SetSeed(try.To1(sdk.NewSeed())))
		}

		wallet := try.To1(edge.Provider().Init(ctx))
		cmds.Fprintln(w, "wallet ready:", wallet.DID())
		return &Result{Data: map[string]interface{}{
			"did": wallet.DID(),
		}}, nil
	})
}

// LoginCmd authenticates and reports where an interrupted flow should
// resume: a pending accept link wins over a pending share token.
type LoginCmd struct {
	cmds.Cmd

	Username string
	Password string
}

func (c LoginCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Username == "" || c.Password == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c LoginCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "login")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		ctx := context.Background()
		try.To(edge.CloudWallet().Login(ctx, c.Username, c.Password))

		seed := try.To1(edge.Store.Seed())
		if len(seed) == 0 {
			try.To(edge.Store.SetSeed(try.To1(sdk.NewSeed())))
		}

		wallet := try.To1(edge.Provider().Init(ctx))
		cmds.Fprintln(w, "logged in:", wallet.DID())

		data := map[string]interface{}{"did": wallet.DID()}

		acceptLink, shareToken := try.To2(edge.Store.Resume())
		switch {
		case acceptLink != "":
			cmds.Fprintln(w, "resume accept:", acceptLink)
			data["resumeAccept"] = acceptLink
		case shareToken != "":
			cmds.Fprintln(w, "resume share")
			data["resumeShare"] = shareToken
		}

		return &Result{Data: data}, nil
	})
}

// LogoutCmd ends the cloud wallet session and clears the local one.
type LogoutCmd struct {
	cmds.Cmd
}

func (c LogoutCmd) Validate() error {
	return c.Cmd.Validate()
}

func (c LogoutCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "logout")

	return c.Cmd.Exec(func(edge cmds.Edge) (r cmds.Result, err error) {
		defer err2.Handle(&err)

		try.To(edge.CloudWallet().Logout(context.Background()))
		cmds.Fprintln(w, "logged out")
		return &Result{}, nil
	})
}
