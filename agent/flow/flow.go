// Package flow implements the credential share and accept flows of the
// wallet agent as explicit state machines. A flow instance receives its
// collaborators at construction, drives them through well-defined states,
// and converts every failure into a log line, a user alert, or a
// navigation, never an escaped error path. Nothing is retried: every
// external call runs exactly once per flow step.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/utils"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

var (
	// ErrNoSelection is returned by confirm when no credential is the
	// active selection.
	ErrNoSelection = errors.New("no credential selected")

	// ErrNotStarted is returned when a flow step runs before the flow
	// has an open wallet session.
	ErrNotStarted = errors.New("flow not started")
)

// Routes the flows navigate to. The navigator maps them onto whatever
// surface hosts the flow: a browser router, a CLI message, a test recorder.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

const pleaseLogin = "Please login."

// Alerter shows a message to the holder.
type Alerter interface {
	Alert(msg string)
}

// Navigator moves the holder to another route.
type Navigator interface {
	Navigate(route string)
}

// Messenger delivers a payload to a DID over the message channel.
type Messenger interface {
	Send(ctx context.Context, toDid string, payload interface{}) (json.RawMessage, error)
}

// PendingStore captures request context across a login redirect so an
// interrupted flow resumes after re-authentication.
type PendingStore interface {
	SetShareRequestToken(token string) error
	SetAcceptLink(vcURL string) error
	ClearAcceptLink() error
}

// Directory persists accepted credentials.
type Directory interface {
	StoreSignedVCs(ctx context.Context, creds []*vc.Credential) (credentialIds []string, err error)
}

// VCURLFromLocation extracts the vcURL query parameter from an inbound
// location string.
func VCURLFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get("vcURL")
}

// ShareTokenFromLocation extracts the token query parameter from an inbound
// location string.
func ShareTokenFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}

// FetchVC is a proxy function to route the accept flow's credential fetch
// to HTTP or to a test double.
var FetchVC = fetchVC

func fetchVC(ctx context.Context, vcURL string) (data []byte, err error) {
	defer err2.Handle(&err, "fetch vc")

	c := &http.Client{Timeout: utils.Settings.Timeout()}

	request := try.To1(http.NewRequestWithContext(
		ctx, http.MethodGet, vcURL, nil))

	response := try.To1(c.Do(request))
	defer func() {
		_ = response.Body.Close()
	}()

	return io.ReadAll(response.Body)
}
