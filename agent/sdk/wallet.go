package sdk

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	"github.com/vcwallet/wallet-agent/agent/utils"
	"github.com/vcwallet/wallet-agent/agent/vc"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// ErrNoSession is returned by the provider when the holder has no
// authenticated session. The flow controllers treat it as the login
// redirect signal.
var ErrNoSession = errors.New("no authenticated session")

// DIDPrefix is the method prefix of locally keyed wallet DIDs. The
// base58 part is the holder's X25519 agreement key, so the DID alone is
// enough to encrypt a message for its owner.
const DIDPrefix = "did:vcw:"

const (
	seedLength = 32

	responseTokenLifetime = 10 * time.Minute
	didAuthTokenLifetime  = 5 * time.Minute
)

// SessionStore is what the wallet needs from the agent's persistent session
// storage.
type SessionStore interface {
	// AccessToken returns the stored session token, empty when the
	// holder is not logged in.
	AccessToken() (string, error)

	// Seed returns the wallet key seed, nil when the wallet has not
	// been onboarded yet.
	Seed() ([]byte, error)

	Credentials() ([][]byte, error)
	AddCredentials(raw [][]byte) error
}

// LocalWallet is the agent's own Wallet implementation. All keys derive
// deterministically from one stored seed: an Ed25519 key signs tokens and
// an X25519 key handles message payload encryption.
type LocalWallet struct {
	did string

	signKey   ed25519.PrivateKey
	agreePriv [seedLength]byte
	agreePub  [seedLength]byte

	store SessionStore
}

var _ Wallet = (*LocalWallet)(nil)
var _ DidAuth = (*LocalWallet)(nil)

// NewSeed generates a fresh wallet seed.
func NewSeed() (seed []byte, err error) {
	defer err2.Handle(&err, "new seed")

	seed = make([]byte, seedLength)
	try.To1(rand.Read(seed))
	return seed, nil
}

// NewLocalWallet derives the wallet key material from seed.
func NewLocalWallet(seed []byte, store SessionStore) (w *LocalWallet, err error) {
	defer err2.Handle(&err, "new wallet")

	if len(seed) != seedLength {
		return nil, fmt.Errorf("seed must be %d bytes", seedLength)
	}

	w = &LocalWallet{
		signKey: ed25519.NewKeyFromSeed(seed),
		store:   store,
	}

	kdf := hkdf.New(sha256.New, seed, nil, []byte("agreement-key"))
	try.To1(kdf.Read(w.agreePriv[:]))

	pub := try.To1(curve25519.X25519(w.agreePriv[:], curve25519.Basepoint))
	copy(w.agreePub[:], pub)
	w.did = DIDPrefix + base58.Encode(w.agreePub[:])

	return w, nil
}

func (w *LocalWallet) DID() string {
	return w.did
}

// GetCredentials returns the holder's stored credentials eligible for the
// share request. The requester re-checks eligibility when verifying the
// response, so the wallet lists everything and lets the holder select.
func (w *LocalWallet) GetCredentials(
	_ context.Context,
	shareRequestToken string,
) (
	creds []*vc.Credential,
	err error,
) {
	defer err2.Handle(&err, "get credentials")

	glog.V(3).Infoln("listing credentials for request token of len",
		len(shareRequestToken))

	raws := try.To1(w.store.Credentials())
	creds = make([]*vc.Credential, 0, len(raws))
	for _, raw := range raws {
		creds = append(creds, try.To1(vc.Parse(raw)))
	}
	return creds, nil
}

// CreateCredentialShareResponseToken signs a response token carrying the
// disclosed credentials and binding them to the original request token.
func (w *LocalWallet) CreateCredentialShareResponseToken(
	_ context.Context,
	shareRequestToken string,
	creds []*vc.Credential,
) (
	token string,
	err error,
) {
	defer err2.Handle(&err, "create share response")

	if len(creds) == 0 {
		return "", errors.New("cannot share an empty credential set")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": w.did,
		"jti": utils.UUID(),
		"iat": now.Unix(),
		"exp": now.Add(responseTokenLifetime).Unix(),
		"interactionToken": map[string]interface{}{
			"credentials":  creds,
			"requestToken": shareRequestToken,
		},
	}
	return w.signJWT(claims)
}

func (w *LocalWallet) SaveCredentials(
	_ context.Context,
	creds []*vc.Credential,
) (
	err error,
) {
	defer err2.Handle(&err, "save credentials")

	raws := make([][]byte, 0, len(creds))
	for _, c := range creds {
		raws = append(raws, try.To1(c.MarshalJSON()))
	}
	return w.store.AddCredentials(raws)
}

// CreateEncryptedMessage seals a payload for the recipient DID with an
// ephemeral X25519 key: X25519 agreement, HKDF-SHA256 key derivation,
// AES-256-GCM. The envelope is base64 of ephemeralPub || nonce ||
// ciphertext.
func (w *LocalWallet) CreateEncryptedMessage(
	_ context.Context,
	toDid string,
	payload []byte,
) (
	envelope string,
	err error,
) {
	defer err2.Handle(&err, "encrypt message")

	theirPub := try.To1(AgreementKey(toDid))

	var ephPriv [seedLength]byte
	try.To1(rand.Read(ephPriv[:]))
	ephPub := try.To1(curve25519.X25519(ephPriv[:], curve25519.Basepoint))

	gcm := try.To1(messageAEAD(ephPriv[:], theirPub))
	nonce := make([]byte, gcm.NonceSize())
	try.To1(rand.Read(nonce))

	sealed := gcm.Seal(nil, nonce, payload, nil)

	data := make([]byte, 0, len(ephPub)+len(nonce)+len(sealed))
	data = append(data, ephPub...)
	data = append(data, nonce...)
	data = append(data, sealed...)

	return base64.StdEncoding.EncodeToString(data), nil
}

// ReadEncryptedMessage opens an envelope addressed to the holder.
func (w *LocalWallet) ReadEncryptedMessage(
	_ context.Context,
	envelope string,
) (
	payload []byte,
	err error,
) {
	defer err2.Handle(&err, "decrypt message")

	data := try.To1(base64.StdEncoding.DecodeString(envelope))
	if len(data) < seedLength {
		return nil, errors.New("envelope too short")
	}
	ephPub, rest := data[:seedLength], data[seedLength:]

	gcm := try.To1(messageAEAD(w.agreePriv[:], ephPub))
	if len(rest) < gcm.NonceSize() {
		return nil, errors.New("envelope too short")
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	return gcm.Open(nil, nonce, sealed, nil)
}

// CreateDidAuthResponseToken answers a did-auth challenge: the response is
// signed by the holder and carries the challenge so the service can match
// it to the handshake it issued.
func (w *LocalWallet) CreateDidAuthResponseToken(
	_ context.Context,
	challengeToken string,
) (
	token string,
	err error,
) {
	defer err2.Handle(&err, "did-auth response")

	challenge := jwt.MapClaims{}
	try.To2(jwt.NewParser().ParseUnverified(challengeToken, challenge))

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":          w.did,
		"jti":          utils.UUID(),
		"iat":          now.Unix(),
		"exp":          now.Add(didAuthTokenLifetime).Unix(),
		"requestToken": challengeToken,
	}
	if aud, ok := challenge["iss"].(string); ok && aud != "" {
		claims["aud"] = aud
	}
	return w.signJWT(claims)
}

func (w *LocalWallet) signJWT(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).
		SignedString(w.signKey)
}

// AgreementKey decodes the X25519 public key embedded in a wallet DID.
func AgreementKey(did string) (pub []byte, err error) {
	defer err2.Handle(&err, "agreement key")

	if len(did) <= len(DIDPrefix) || did[:len(DIDPrefix)] != DIDPrefix {
		return nil, fmt.Errorf("unsupported DID method: %s", did)
	}
	pub = try.To1(base58.Decode(did[len(DIDPrefix):]))
	if len(pub) != seedLength {
		return nil, errors.New("invalid agreement key length")
	}
	return pub, nil
}

func messageAEAD(priv, pub []byte) (gcm cipher.AEAD, err error) {
	defer err2.Handle(&err, "message aead")

	shared := try.To1(curve25519.X25519(priv, pub))

	kdf := hkdf.New(sha256.New, shared, nil, nil)
	key := make([]byte, 32)
	try.To1(kdf.Read(key))

	block := try.To1(aes.NewCipher(key))
	return cipher.NewGCM(block)
}
