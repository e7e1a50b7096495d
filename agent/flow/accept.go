package flow

import (
	"bytes"
	"context"

	"github.com/golang/glog"
	"github.com/vcwallet/wallet-agent/agent/sdk"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

// AcceptState is the accept flow's position in its state machine.
type AcceptState int

const (
	AcceptInitializing AcceptState = iota
	AcceptAuthenticating
	AcceptFetching
	AcceptShowingCredential
	AcceptShowingEmpty
	AcceptRedirected
)

func (s AcceptState) String() string {
	return [...]string{"Initializing", "Authenticating", "Fetching",
		"ShowingCredential", "ShowingEmpty", "Redirected"}[s]
}

// Accept drives the inbound credential flow: fetch the offered credential
// from the share URL and let the holder save or reject it.
type Accept struct {
	Provider  sdk.Provider
	Directory Directory
	Alerter   Alerter
	Navigator Navigator
	Pending   PendingStore

	vcURL string

	cred  *vc.Credential
	state AcceptState
}

// NewAccept builds an accept flow for one offered credential address.
func NewAccept(vcURL string) *Accept {
	return &Accept{
		vcURL: vcURL,
		state: AcceptInitializing,
	}
}

func (f *Accept) State() AcceptState { return f.state }

// Credential returns the offered credential, nil until the flow reaches
// ShowingCredential.
func (f *Accept) Credential() *vc.Credential { return f.cred }

func (f *Accept) stale(ctx context.Context) bool {
	return ctx.Err() != nil || f.state == AcceptRedirected
}

// Start checks authentication and fetches the offered credential. On
// authentication failure the vcURL is captured for resumption and the
// holder is redirected to login.
func (f *Accept) Start(ctx context.Context) AcceptState {
	f.state = AcceptAuthenticating

	did, _, err := f.Provider.GetDidAndCredentials(ctx)
	if f.stale(ctx) {
		return f.state
	}
	if err != nil || did == "" {
		glog.V(1).Infoln("accept: not authenticated:", err)
		if f.vcURL != "" {
			if err := f.Pending.SetAcceptLink(f.vcURL); err != nil {
				glog.Error("cannot capture pending accept link: ", err)
			}
		}
		f.state = AcceptRedirected
		f.Alerter.Alert(pleaseLogin)
		f.Navigator.Navigate(RouteLogin)
		return f.state
	}

	f.state = AcceptFetching
	f.fetchCredential(ctx)
	return f.state
}

func (f *Accept) fetchCredential(ctx context.Context) {
	data, err := FetchVC(ctx, f.vcURL)
	if f.stale(ctx) {
		return
	}
	if err != nil {
		glog.Errorln("accept:", err)
		f.state = AcceptShowingEmpty
		return
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.state = AcceptShowingEmpty
		return
	}

	cred, err := vc.Parse(data)
	if err != nil {
		glog.Errorln("accept: cannot parse credential:", err)
		f.state = AcceptShowingEmpty
		return
	}

	f.cred = cred
	f.state = AcceptShowingCredential
}

// Save persists the offered credential to the credential directory and to
// the holder's wallet, then navigates home. The wallet copy is what later
// share flows list from. A persistence failure is logged, returned to the
// caller, and leaves the pending state untouched; there is no alert for it.
func (f *Accept) Save(ctx context.Context) error {
	if f.cred == nil {
		return ErrNotStarted
	}

	creds := []*vc.Credential{f.cred}

	_, err := f.Directory.StoreSignedVCs(ctx, creds)
	if f.stale(ctx) {
		return nil
	}
	if err != nil {
		glog.Errorln("accept: save:", err)
		return err
	}

	w, err := f.Provider.Init(ctx)
	if err == nil {
		err = w.SaveCredentials(ctx, creds)
	}
	if f.stale(ctx) {
		return nil
	}
	if err != nil {
		glog.Errorln("accept: save:", err)
		return err
	}

	if err := f.Pending.ClearAcceptLink(); err != nil {
		glog.Error("cannot clear pending accept link: ", err)
	}
	f.Navigator.Navigate(RouteHome)
	return nil
}

// Reject discards the offered credential and navigates home
// unconditionally. Nothing is persisted.
func (f *Accept) Reject() {
	f.cred = nil
	f.Navigator.Navigate(RouteHome)
}
