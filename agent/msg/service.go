// Package msg implements the store-and-forward message channel of the
// wallet agent. Delivery is recipient-addressed and encrypted: the channel
// sees only opaque envelopes. Authorization uses a bearer token obtained
// with a did-auth challenge/response handshake and memoized per Service
// instance.
package msg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/sdk"
	"github.com/vcwallet/wallet-agent/agent/utils"
)

const (
	didAuthRequestPath = "/did-auth/create-did-auth-request"
	messagesPath       = "/messages"
	messagePath        = "/message/"
)

// Message is one received message after its body has been decrypted.
type Message struct {
	ID        string `json:"id"`
	FromDid   string `json:"fromDid"`
	CreatedAt string `json:"createdAt"`
	Message   []byte `json:"message"`
}

type wireMessage struct {
	ID        string `json:"id"`
	FromDid   string `json:"fromDid"`
	CreatedAt string `json:"createdAt"`
	Message   string `json:"message"`
}

// Service is a message channel session bound to one wallet. The bearer
// token cache is construction-scoped: separate Service instances
// authenticate separately.
type Service struct {
	wallet sdk.Wallet
	auth   sdk.DidAuth

	baseURL string
	client  *http.Client

	l     sync.Mutex // guards cache
	cache tokenCache

	now func() time.Time
}

// New builds a message channel session for the wallet. The service origin
// comes from the agent settings.
func New(wallet sdk.Wallet, auth sdk.DidAuth) *Service {
	return &Service{
		wallet:  wallet,
		auth:    auth,
		baseURL: utils.Settings.MessagingURL(),
		client:  &http.Client{Timeout: utils.Settings.Timeout()},
		now:     time.Now,
	}
}

// Send encrypts payload for the recipient DID and posts it to the channel.
// It returns the raw server response.
func (s *Service) Send(
	ctx context.Context,
	toDid string,
	payload interface{},
) (
	response json.RawMessage,
	err error,
) {
	defer err2.Handle(&err, "message send")

	data := try.To1(json.Marshal(payload))
	encrypted := try.To1(s.wallet.CreateEncryptedMessage(ctx, toDid, data))

	token := try.To1(s.getToken(ctx))

	return s.execute(ctx, messagesPath, http.MethodPost, token,
		map[string]string{
			"toDid":   toDid,
			"message": encrypted,
		})
}

// GetAll fetches the holder's pending messages and decrypts each body in
// place.
func (s *Service) GetAll(ctx context.Context) (msgs []Message, err error) {
	defer err2.Handle(&err, "message get all")

	token := try.To1(s.getToken(ctx))
	data := try.To1(s.execute(ctx, messagesPath, http.MethodGet, token, nil))

	var body struct {
		Messages []wireMessage `json:"messages"`
	}
	try.To(json.Unmarshal(data, &body))

	msgs = make([]Message, 0, len(body.Messages))
	for _, m := range body.Messages {
		decrypted := try.To1(s.wallet.ReadEncryptedMessage(ctx, m.Message))
		msgs = append(msgs, Message{
			ID:        m.ID,
			FromDid:   m.FromDid,
			CreatedAt: m.CreatedAt,
			Message:   decrypted,
		})
	}
	return msgs, nil
}

// Delete removes one message from the channel by id.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer err2.Handle(&err, "message delete")

	token := try.To1(s.getToken(ctx))
	try.To1(s.execute(ctx, messagePath+id, http.MethodDelete, token, nil))
	return nil
}

// getToken returns the channel's bearer token. A cached, unexpired token is
// reused as is; otherwise the did-auth handshake runs once and the result
// is cached. The saving is one network round trip and one signature per
// message operation.
func (s *Service) getToken(ctx context.Context) (token string, err error) {
	defer err2.Handle(&err, "get token")

	s.l.Lock()
	defer s.l.Unlock()

	if s.cache.isValid(s.now()) {
		glog.V(5).Infoln("reusing cached channel token")
		return s.cache.value, nil
	}

	data := try.To1(s.execute(ctx, didAuthRequestPath, http.MethodPost, "",
		map[string]string{
			"audienceDid": s.wallet.DID(),
		}))

	var challenge string
	try.To(json.Unmarshal(data, &challenge))

	token = try.To1(s.auth.CreateDidAuthResponseToken(ctx, challenge))
	s.cache.set(token)

	return token, nil
}

// execute is the low-level request primitive. Status 204 resolves with no
// payload, any other 2xx with the response body, and everything else fails
// with the HTTP status text. Nothing is retried.
func (s *Service) execute(
	ctx context.Context,
	path, method, token string,
	body interface{},
) (
	data json.RawMessage,
	err error,
) {
	defer err2.Handle(&err, "execute")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(try.To1(json.Marshal(body)))
	}

	request := try.To1(http.NewRequestWithContext(
		ctx, method, s.buildURL(path), reader))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response := try.To1(s.client.Do(request))
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			glog.Warningln("body.Close:", closeErr)
		}
	}()

	if response.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		glog.Warning("http code:", response.Status)
		return nil, fmt.Errorf("%v", response.Status)
	}
	return io.ReadAll(response.Body)
}

// buildURL appends path verbatim to the channel's service origin.
func (s *Service) buildURL(path string) string {
	return s.baseURL + path
}
