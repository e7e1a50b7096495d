package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/lainio/err2/assert"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

type fakeDirectory struct {
	stored   [][]*vc.Credential
	storeErr error
}

func (d *fakeDirectory) StoreSignedVCs(
	_ context.Context, creds []*vc.Credential,
) ([]string, error) {
	if d.storeErr != nil {
		return nil, d.storeErr
	}
	d.stored = append(d.stored, creds)
	return []string{"someCredentialId"}, nil
}

func newTestAccept(
	p *fakeProvider, d *fakeDirectory,
	ui *recorder, pending *fakePending, vcURL string,
) *Accept {
	f := NewAccept(vcURL)
	f.Provider = p
	f.Directory = d
	f.Alerter = ui
	f.Navigator = ui
	f.Pending = pending
	return f
}

func withFetchVC(data []byte, err error) func() {
	orig := FetchVC
	FetchVC = func(_ context.Context, _ string) ([]byte, error) {
		return data, err
	}
	return func() { FetchVC = orig }
}

func TestAcceptAuthFailureRedirects(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ui := &recorder{}
	pending := &fakePending{}
	f := newTestAccept(
		&fakeProvider{authErr: errors.New("no session")},
		&fakeDirectory{}, ui, pending,
		"https://wallet.example.com/share/abc")

	state := f.Start(context.Background())

	assert.Equal(state, AcceptRedirected)
	assert.Equal(len(ui.alerts), 1)
	assert.Equal(ui.alerts[0], "Please login.")
	assert.Equal(len(ui.routes), 1)
	assert.Equal(ui.routes[0], RouteLogin)
	assert.Equal(pending.acceptLink, "https://wallet.example.com/share/abc")
}

func TestAcceptShowsCredential(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	restore := withFetchVC([]byte(
		`{"type":["NameCredentialPersonV1"],`+
			`"credentialSubject":{"data":{"givenName":"Jane","familyName":"Doe"}}}`),
		nil)
	defer restore()

	ui := &recorder{}
	f := newTestAccept(
		&fakeProvider{wallet: &fakeWallet{did: "holderDid"}},
		&fakeDirectory{}, ui, &fakePending{},
		"https://wallet.example.com/share/abc")

	state := f.Start(context.Background())

	assert.Equal(state, AcceptShowingCredential)
	assert.INotNil(f.Credential())
	assert.Equal(f.Credential().HolderName(), "Jane Doe")
}

func TestAcceptShowsEmpty(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	for _, body := range [][]byte{nil, []byte("null"), []byte("  ")} {
		restore := withFetchVC(body, nil)

		f := newTestAccept(
			&fakeProvider{wallet: &fakeWallet{did: "holderDid"}},
			&fakeDirectory{}, &recorder{}, &fakePending{},
			"https://wallet.example.com/share/abc")

		assert.Equal(f.Start(context.Background()), AcceptShowingEmpty)
		assert.That(f.Credential() == nil)
		restore()
	}
}

func TestAcceptFetchFailureShowsEmpty(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	restore := withFetchVC(nil, errors.New("404 Not Found"))
	defer restore()

	f := newTestAccept(
		&fakeProvider{wallet: &fakeWallet{did: "holderDid"}},
		&fakeDirectory{}, &recorder{}, &fakePending{},
		"https://wallet.example.com/share/abc")

	assert.Equal(f.Start(context.Background()), AcceptShowingEmpty)
}

func TestAcceptSave(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	restore := withFetchVC([]byte(
		`{"type":["NameCredentialPersonV1"],`+
			`"credentialSubject":{"data":{"givenName":"Jane"}}}`), nil)
	defer restore()

	ui := &recorder{}
	dir := &fakeDirectory{}
	wallet := &fakeWallet{did: "holderDid"}
	pending := &fakePending{acceptLink: "https://wallet.example.com/share/abc"}
	f := newTestAccept(
		&fakeProvider{wallet: wallet},
		dir, ui, pending,
		"https://wallet.example.com/share/abc")

	f.Start(context.Background())
	err := f.Save(context.Background())

	assert.NoError(err)
	assert.Equal(len(dir.stored), 1)
	assert.Equal(len(dir.stored[0]), 1)
	assert.Equal(len(wallet.savedCreds), 1)
	assert.That(pending.cleared)
	assert.Equal(len(ui.routes), 1)
	assert.Equal(ui.routes[0], RouteHome)
}

// An accepted and saved credential must show up as a selectable credential
// when a share request arrives later.
func TestAcceptSaveMakesCredentialShareable(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	restore := withFetchVC([]byte(
		`{"type":["NameCredentialPersonV1"],`+
			`"credentialSubject":{"data":{"givenName":"Jane","familyName":"Doe"}}}`),
		nil)
	defer restore()

	wallet := &fakeWallet{did: "holderDid", respToken: "responseToken"}
	provider := &fakeProvider{wallet: wallet}

	accept := newTestAccept(provider, &fakeDirectory{}, &recorder{},
		&fakePending{}, "https://wallet.example.com/share/abc")
	assert.Equal(accept.Start(context.Background()), AcceptShowingCredential)
	assert.NoError(accept.Save(context.Background()))

	share := newTestShare(provider,
		fakeCodec{parsed: parsedToken("requesterDid", "")},
		&fakeMessenger{}, &recorder{}, &fakePending{}, "shareRequestToken")
	assert.Equal(share.Start(context.Background()), ShareAwaitingSelection)
	assert.Equal(len(share.Credentials()), 1)
	assert.Equal(share.Credentials()[0].HolderName(), "Jane Doe")
}

func TestAcceptSaveFailureLogsOnly(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	restore := withFetchVC([]byte(
		`{"type":["NameCredentialPersonV1"],`+
			`"credentialSubject":{"data":{}}}`), nil)
	defer restore()

	ui := &recorder{}
	pending := &fakePending{acceptLink: "https://wallet.example.com/share/abc"}
	f := newTestAccept(
		&fakeProvider{wallet: &fakeWallet{did: "holderDid"}},
		&fakeDirectory{storeErr: errors.New("500 Internal Server Error")},
		ui, pending, "https://wallet.example.com/share/abc")

	f.Start(context.Background())
	err := f.Save(context.Background())

	assert.Error(err)
	// no alert, no navigation, pending state untouched
	assert.Equal(len(ui.alerts), 0)
	assert.Equal(len(ui.routes), 0)
	assert.ThatNot(pending.cleared)
}

func TestAcceptReject(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	restore := withFetchVC([]byte(
		`{"type":["NameCredentialPersonV1"],`+
			`"credentialSubject":{"data":{}}}`), nil)
	defer restore()

	ui := &recorder{}
	dir := &fakeDirectory{}
	f := newTestAccept(
		&fakeProvider{wallet: &fakeWallet{did: "holderDid"}},
		dir, ui, &fakePending{},
		"https://wallet.example.com/share/abc")

	f.Start(context.Background())
	f.Reject()

	assert.Equal(len(dir.stored), 0)
	assert.That(f.Credential() == nil)
	assert.Equal(len(ui.routes), 1)
	assert.Equal(ui.routes[0], RouteHome)
}

func TestAcceptSaveBeforeFetch(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	f := NewAccept("https://wallet.example.com/share/abc")
	err := f.Save(context.Background())
	assert.That(errors.Is(err, ErrNotStarted))
}
