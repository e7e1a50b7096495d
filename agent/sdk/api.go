// Package sdk defines the identity SDK boundary of the wallet agent: the
// wallet handle, the signed-token codec, and the did-auth capability. The
// flow controllers and the message channel program against these interfaces
// and receive implementations by explicit injection, never through ambient
// globals. The package also ships the agent's own implementations: a JWT
// token codec and a locally keyed wallet.
package sdk

import (
	"context"

	"github.com/vcwallet/wallet-agent/agent/vc"
)

// Wallet is an open identity wallet handle. It owns the holder's key
// material: it signs response tokens and encrypts and decrypts message
// payloads with keys that never leave the implementation.
type Wallet interface {
	// DID returns the holder's decentralized identifier.
	DID() string

	// GetCredentials fetches the stored credentials eligible for the
	// given share request token.
	GetCredentials(ctx context.Context, shareRequestToken string) ([]*vc.Credential, error)

	// CreateCredentialShareResponseToken builds and signs a response
	// token from a share request token and the disclosed credentials.
	CreateCredentialShareResponseToken(ctx context.Context, shareRequestToken string, creds []*vc.Credential) (string, error)

	// SaveCredentials persists accepted credentials into the wallet.
	SaveCredentials(ctx context.Context, creds []*vc.Credential) error

	// CreateEncryptedMessage encrypts a payload so that only the
	// recipient DID can read it.
	CreateEncryptedMessage(ctx context.Context, toDid string, payload []byte) (string, error)

	// ReadEncryptedMessage decrypts a message envelope addressed to the
	// holder.
	ReadEncryptedMessage(ctx context.Context, ciphertext string) ([]byte, error)
}

// Provider opens wallet sessions. Init fails when the holder has no
// authenticated session, which is what the flow controllers use as their
// authentication gate.
type Provider interface {
	Init(ctx context.Context) (Wallet, error)

	// GetDidAndCredentials is the authentication probe: the current DID
	// and stored credentials, or an error when there is no session.
	GetDidAndCredentials(ctx context.Context) (did string, creds []*vc.Credential, err error)
}

// TokenCodec decodes opaque signed tokens. Verification of the issuer
// signature happens where the token is consumed; the codec only recovers the
// payload.
type TokenCodec interface {
	ParseToken(raw string) (*ParsedToken, error)
}

// DidAuth is the did-auth capability of the message channel handshake.
type DidAuth interface {
	CreateDidAuthResponseToken(ctx context.Context, challengeToken string) (string, error)
}

// ParsedToken is the decoded form of a signed interaction token.
type ParsedToken struct {
	Payload Payload `json:"payload"`
}

type Payload struct {
	// Iss is the requester DID that issued the token.
	Iss string `json:"iss"`

	InteractionToken InteractionToken `json:"interactionToken"`
}

type InteractionToken struct {
	CallbackURL string `json:"callbackURL,omitempty"`
}

// RequesterInfo extracts the requester identity carried by a share request
// token.
func (t *ParsedToken) RequesterInfo() (requesterDid, callbackURL string) {
	return t.Payload.Iss, t.Payload.InteractionToken.CallbackURL
}
