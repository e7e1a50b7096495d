package flow

import (
	"context"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/sdk"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

// ShareState is the share flow's position in its state machine.
type ShareState int

const (
	ShareUnauthenticated ShareState = iota
	ShareInitializing
	ShareListingCredentials
	ShareAwaitingSelection
	ShareSubmitting
	ShareDelivered
	ShareDeliverySkipped
	ShareFailed
	ShareRedirected
)

func (s ShareState) String() string {
	return [...]string{"Unauthenticated", "Initializing", "ListingCredentials",
		"AwaitingSelection", "Submitting", "Delivered", "DeliverySkipped",
		"Failed", "Redirected"}[s]
}

// ShareResult is the terminal outcome of one confirmed share.
type ShareResult struct {
	State         ShareState
	ResponseToken string
}

// Share drives the outbound credential share: requester identity from the
// request token, credential listing, holder selection, response token
// creation, and delivery over the message channel. Every step is gated
// behind the authentication check.
type Share struct {
	Provider  sdk.Provider
	Codec     sdk.TokenCodec
	Messenger Messenger
	Alerter   Alerter
	Navigator Navigator
	Pending   PendingStore

	token string

	requesterDid string
	callbackURL  string

	wallet   sdk.Wallet
	creds    []*vc.Credential
	selected *vc.Credential

	state ShareState
}

// NewShare builds a share flow for one inbound request token.
func NewShare(requestToken string) *Share {
	return &Share{
		token: requestToken,
		state: ShareUnauthenticated,
	}
}

func (f *Share) State() ShareState { return f.state }

// RequesterDid is empty when the request token could not be parsed; the
// flow then runs degraded and delivery is skipped.
func (f *Share) RequesterDid() string { return f.requesterDid }

func (f *Share) CallbackURL() string { return f.callbackURL }

// Credentials returns the listed selectable credentials.
func (f *Share) Credentials() []*vc.Credential { return f.creds }

// stale reports a continuation that resolved after the flow was cancelled
// or redirected. Its result must be discarded without touching state or
// navigating.
func (f *Share) stale(ctx context.Context) bool {
	return ctx.Err() != nil || f.state == ShareRedirected
}

// Start parses the request token, checks authentication, and lists the
// eligible credentials. On authentication failure the flow captures the
// token for resumption, alerts the holder, and redirects to login; the
// redirect is authoritative over anything still in flight.
func (f *Share) Start(ctx context.Context) ShareState {
	f.state = ShareInitializing

	f.parseRequestToken()

	did, _, err := f.Provider.GetDidAndCredentials(ctx)
	if f.stale(ctx) {
		return f.state
	}
	if err != nil || did == "" {
		glog.V(1).Infoln("share: not authenticated:", err)
		if f.token != "" {
			if err := f.Pending.SetShareRequestToken(f.token); err != nil {
				glog.Error("cannot capture pending share token: ", err)
			}
		}
		f.state = ShareRedirected
		f.Alerter.Alert(pleaseLogin)
		f.Navigator.Navigate(RouteLogin)
		return f.state
	}

	f.state = ShareListingCredentials
	f.listCredentials(ctx)
	if f.stale(ctx) {
		return f.state
	}

	f.state = ShareAwaitingSelection
	return f.state
}

// parseRequestToken recovers the requester DID and callback URL. A parse
// failure is logged and leaves the flow with a missing requester DID
// instead of aborting it.
func (f *Share) parseRequestToken() {
	parsed, err := f.Codec.ParseToken(f.token)
	if err != nil {
		glog.V(1).Infoln("share: cannot parse request token:", err)
		return
	}
	f.requesterDid, f.callbackURL = parsed.RequesterInfo()
}

func (f *Share) listCredentials(ctx context.Context) {
	defer err2.Catch(func(err error) {
		// logged only: the UI shows an empty table, not an error banner
		glog.Errorln("share:", err)
		f.creds = nil
	})

	w := try.To1(f.Provider.Init(ctx))
	creds := try.To1(w.GetCredentials(ctx, f.token))
	if len(creds) == 0 {
		glog.Errorln("share: No credential found for this request!")
		f.wallet = w
		return
	}

	f.wallet = w
	f.creds = creds
}

// Select makes the credential the single active selection, replacing any
// earlier pick.
func (f *Share) Select(c *vc.Credential) {
	f.selected = c
}

// Cancel clears the active selection.
func (f *Share) Cancel() {
	f.selected = nil
}

func (f *Share) Selected() *vc.Credential { return f.selected }

// Confirm creates the response token from the selected credential and
// delivers it to the requester. Delivery happens if and only if both the
// requester DID and the response token are present; otherwise the flow
// terminates in the explicit DeliverySkipped state with no alert and no
// navigation.
func (f *Share) Confirm(ctx context.Context) (r *ShareResult, err error) {
	defer err2.Handle(&err, "share confirm")

	if f.selected == nil {
		return nil, ErrNoSelection
	}
	if f.wallet == nil {
		return nil, ErrNotStarted
	}

	f.state = ShareSubmitting

	responseToken, tokenErr := f.wallet.CreateCredentialShareResponseToken(
		ctx, f.token, []*vc.Credential{f.selected})
	if f.stale(ctx) {
		return &ShareResult{State: f.state}, nil
	}
	if tokenErr != nil {
		glog.Errorln("share:", tokenErr)
		f.state = ShareFailed
		return &ShareResult{State: f.state}, tokenErr
	}

	if f.requesterDid == "" || responseToken == "" {
		f.state = ShareDeliverySkipped
		glog.V(1).Infoln("share: delivery skipped, requesterDid:",
			f.requesterDid != "", "responseToken:", responseToken != "")
		return &ShareResult{
			State:         f.state,
			ResponseToken: responseToken,
		}, nil
	}

	_, sendErr := f.Messenger.Send(ctx, f.requesterDid,
		map[string]string{"token": responseToken})
	if f.stale(ctx) {
		return &ShareResult{State: f.state, ResponseToken: responseToken}, nil
	}
	if sendErr != nil {
		glog.Errorln("share:", sendErr)
		f.state = ShareFailed
		return &ShareResult{
			State:         f.state,
			ResponseToken: responseToken,
		}, sendErr
	}

	f.state = ShareDelivered
	f.Alerter.Alert("Credential shared successfully!")
	f.Navigator.Navigate(RouteHome)

	return &ShareResult{
		State:         f.state,
		ResponseToken: responseToken,
	}, nil
}
