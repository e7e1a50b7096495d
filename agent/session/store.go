// Package session persists the holder's wallet session between commands:
// the cloud wallet access token, the wallet key seed, the saved
// credentials and the pending flow state captured across a login redirect.
package session

import (
	"errors"

	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/storage/wrapper"
	"github.com/vcwallet/wallet-agent/agent/utils"
)

const (
	bucketSession     = "session"
	bucketPending     = "pending"
	bucketCredentials = "credentials"
)

const (
	keyAccessToken = "accessToken"
	keySeed        = "seed"
	keyShareToken  = "shareRequestToken"
	keyAcceptLink  = "acceptVCLink"
)

// Store is the persistent wallet session. One Store maps to one encrypted
// bbolt file on disk.
type Store struct {
	provider *wrapper.StorageProvider

	session     storage.Store
	pending     storage.Store
	credentials wrapper.Store
}

// Open opens, creating when needed, the session storage file configured in
// the process-wide settings.
func Open() (s *Store, err error) {
	defer err2.Handle(&err, "open session")

	provider := wrapper.New(wrapper.Config{
		Key:      utils.Settings.StorageKey(),
		FileName: "wallet-session",
		FilePath: utils.Settings.StoragePath(),
		BucketIDs: []string{
			bucketSession, bucketPending, bucketCredentials,
		},
	})
	try.To(provider.Init())

	s = &Store{provider: provider}
	s.session = try.To1(provider.OpenStore(bucketSession))
	s.pending = try.To1(provider.OpenStore(bucketPending))
	creds := try.To1(provider.OpenStore(bucketCredentials))
	s.credentials = creds.(wrapper.Store)

	return s, nil
}

func (s *Store) Close() error {
	return s.provider.Close()
}

// get treats a missing key as an empty value, everything else stays an
// error.
func get(store storage.Store, key string) ([]byte, error) {
	data, err := store.Get(key)
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, nil
	}
	return data, err
}

func (s *Store) AccessToken() (string, error) {
	data, err := get(s.session, keyAccessToken)
	return string(data), err
}

func (s *Store) SetAccessToken(token string) error {
	return s.session.Put(keyAccessToken, []byte(token))
}

func (s *Store) Seed() ([]byte, error) {
	return get(s.session, keySeed)
}

func (s *Store) SetSeed(seed []byte) error {
	return s.session.Put(keySeed, seed)
}

func (s *Store) Credentials() ([][]byte, error) {
	return s.credentials.GetAll()
}

func (s *Store) AddCredentials(raw [][]byte) (err error) {
	defer err2.Handle(&err, "add credentials")

	for _, data := range raw {
		try.To(s.credentials.Put(utils.UUID(), data))
	}
	return nil
}

func (s *Store) ShareRequestToken() (string, error) {
	data, err := get(s.pending, keyShareToken)
	return string(data), err
}

func (s *Store) SetShareRequestToken(token string) error {
	return s.pending.Put(keyShareToken, []byte(token))
}

func (s *Store) ClearShareRequestToken() error {
	return s.pending.Delete(keyShareToken)
}

func (s *Store) AcceptLink() (string, error) {
	data, err := get(s.pending, keyAcceptLink)
	return string(data), err
}

func (s *Store) SetAcceptLink(vcURL string) error {
	return s.pending.Put(keyAcceptLink, []byte(vcURL))
}

func (s *Store) ClearAcceptLink() error {
	return s.pending.Delete(keyAcceptLink)
}

// ClearSession drops the access token and the pending flow state. The
// wallet seed and the saved credentials survive a logout.
func (s *Store) ClearSession() (err error) {
	defer err2.Handle(&err, "clear session")

	try.To(s.session.Delete(keyAccessToken))
	try.To(s.pending.Delete(keyShareToken))
	try.To(s.pending.Delete(keyAcceptLink))
	return nil
}

// Resume tells where an interrupted flow should continue after a fresh
// login. A pending accept link wins over a pending share token. The
// returned pending state is cleared, resumption happens at most once.
func (s *Store) Resume() (acceptLink, shareToken string, err error) {
	defer err2.Handle(&err, "resume")

	acceptLink = try.To1(s.AcceptLink())
	if acceptLink != "" {
		try.To(s.ClearAcceptLink())
		glog.V(1).Infoln("resuming accept flow:", acceptLink)
		return acceptLink, "", nil
	}

	shareToken = try.To1(s.ShareRequestToken())
	if shareToken != "" {
		try.To(s.ClearShareRequestToken())
		glog.V(1).Infoln("resuming share flow")
	}
	return "", shareToken, nil
}
