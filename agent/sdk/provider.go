package sdk

import (
	"context"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

// LocalProvider opens LocalWallet sessions from the agent's session
// storage. A session exists when both an access token and the wallet seed
// are stored; everything else is ErrNoSession.
type LocalProvider struct {
	Store SessionStore
}

var _ Provider = (*LocalProvider)(nil)

func (p *LocalProvider) Init(_ context.Context) (w Wallet, err error) {
	defer err2.Handle(&err, "wallet init")

	token := try.To1(p.Store.AccessToken())
	if token == "" {
		return nil, ErrNoSession
	}
	seed := try.To1(p.Store.Seed())
	if len(seed) == 0 {
		return nil, ErrNoSession
	}
	return NewLocalWallet(seed, p.Store)
}

// GetDidAndCredentials is the authentication probe. A failing credential
// listing doesn't fail the probe, the DID alone proves the session.
func (p *LocalProvider) GetDidAndCredentials(
	ctx context.Context,
) (
	did string,
	creds []*vc.Credential,
	err error,
) {
	defer err2.Handle(&err, "did and credentials")

	w := try.To1(p.Init(ctx))

	creds, credErr := w.GetCredentials(ctx, "")
	if credErr != nil {
		glog.V(1).Infoln("no credentials:", credErr)
		creds = nil
	}
	return w.DID(), creds, nil
}
