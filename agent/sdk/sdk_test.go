package sdk

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

type memStore struct {
	token string
	seed  []byte
	creds [][]byte
}

func (m *memStore) AccessToken() (string, error)    { return m.token, nil }
func (m *memStore) Seed() ([]byte, error)           { return m.seed, nil }
func (m *memStore) Credentials() ([][]byte, error)  { return m.creds, nil }
func (m *memStore) AddCredentials(r [][]byte) error { m.creds = append(m.creds, r...); return nil }

var testCredJSON = []byte(`{"type":["VerifiableCredential","NameCredentialPersonV1"],` +
	`"credentialSubject":{"data":{"givenName":"Jane","familyName":"Doe"}}}`)

func TestMain(m *testing.M) {
	setUp()
	os.Exit(m.Run())
}

func setUp() {
	try.To(flag.Set("logtostderr", "true"))
	flag.Parse()
}

func newTestWallet(store *memStore) *LocalWallet {
	seed := try.To1(NewSeed())
	store.seed = seed
	return try.To1(NewLocalWallet(seed, store))
}

func TestParseToken(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	w := newTestWallet(&memStore{})
	raw := try.To1(w.signJWT(jwt.MapClaims{
		"iss": "someIss",
		"interactionToken": map[string]interface{}{
			"callbackURL": "someUrl",
		},
	}))

	parsed, err := Codec{}.ParseToken(raw)
	assert.NoError(err)

	did, callback := parsed.RequesterInfo()
	assert.Equal(did, "someIss")
	assert.Equal(callback, "someUrl")
}

func TestParseTokenGarbage(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	_, err := Codec{}.ParseToken("not-a-jwt")
	assert.Error(err)
}

func TestEncryptedMessageRoundTrip(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctx := context.Background()
	sender := newTestWallet(&memStore{})
	recipient := newTestWallet(&memStore{})

	envelope, err := sender.CreateEncryptedMessage(
		ctx, recipient.DID(), []byte("hush"))
	assert.NoError(err)

	payload, err := recipient.ReadEncryptedMessage(ctx, envelope)
	assert.NoError(err)
	assert.Equal(string(payload), "hush")

	// the wrong recipient cannot open it
	_, err = sender.ReadEncryptedMessage(ctx, envelope)
	assert.Error(err)
}

func TestAgreementKey(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	w := newTestWallet(&memStore{})
	pub, err := AgreementKey(w.DID())
	assert.NoError(err)
	assert.Equal(len(pub), 32)

	_, err = AgreementKey("did:example:123")
	assert.Error(err)
}

func TestShareResponseToken(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctx := context.Background()
	w := newTestWallet(&memStore{})
	cred := try.To1(vc.Parse(testCredJSON))

	token, err := w.CreateCredentialShareResponseToken(
		ctx, "testtoken", []*vc.Credential{cred})
	assert.NoError(err)
	assert.NotEmpty(token)

	parsed, err := Codec{}.ParseToken(token)
	assert.NoError(err)
	assert.Equal(parsed.Payload.Iss, w.DID())

	claims := jwt.MapClaims{}
	try.To2(jwt.NewParser().ParseUnverified(token, claims))
	it := claims["interactionToken"].(map[string]interface{})
	assert.Equal(it["requestToken"].(string), "testtoken")
	assert.Equal(len(it["credentials"].([]interface{})), 1)
}

func TestShareResponseTokenEmptySelection(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	w := newTestWallet(&memStore{})
	_, err := w.CreateCredentialShareResponseToken(
		context.Background(), "testtoken", nil)
	assert.Error(err)
}

func TestDidAuthResponseToken(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctx := context.Background()
	service := newTestWallet(&memStore{})
	holder := newTestWallet(&memStore{})

	challenge := try.To1(service.signJWT(jwt.MapClaims{
		"iss": service.DID(),
		"jti": "challenge-1",
		"exp": time.Now().Add(time.Minute).Unix(),
	}))

	response, err := holder.CreateDidAuthResponseToken(ctx, challenge)
	assert.NoError(err)

	claims := jwt.MapClaims{}
	try.To2(jwt.NewParser().ParseUnverified(response, claims))
	assert.Equal(claims["iss"].(string), holder.DID())
	assert.Equal(claims["aud"].(string), service.DID())
	assert.Equal(claims["requestToken"].(string), challenge)
}

func TestProviderSessionGate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctx := context.Background()
	store := &memStore{}
	p := &LocalProvider{Store: store}

	_, _, err := p.GetDidAndCredentials(ctx)
	assert.Error(err)

	w := newTestWallet(store) // sets the seed
	store.token = "someAccessToken"
	store.creds = [][]byte{testCredJSON}

	did, creds, err := p.GetDidAndCredentials(ctx)
	assert.NoError(err)
	assert.Equal(did, w.DID())
	assert.Equal(len(creds), 1)
	assert.Equal(creds[0].DisplayLabel(), "Name Document")
}
