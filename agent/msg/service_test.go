package msg

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	flag.Parse()
	os.Exit(m.Run())
}

// testWallet fakes the wallet crypto with a reversible prefix so the tests
// can see exactly what went over the wire.
type testWallet struct{}

func (testWallet) DID() string { return "someDid" }

func (testWallet) CreateEncryptedMessage(
	_ context.Context, _ string, payload []byte) (string, error) {
	return "enc:" + string(payload), nil
}

func (testWallet) ReadEncryptedMessage(
	_ context.Context, envelope string) ([]byte, error) {
	return []byte(strings.TrimPrefix(envelope, "enc:")), nil
}

func (testWallet) GetCredentials(
	_ context.Context, _ string) ([]*vc.Credential, error) {
	return nil, nil
}

func (testWallet) CreateCredentialShareResponseToken(
	_ context.Context, _ string, _ []*vc.Credential) (string, error) {
	return "", nil
}

func (testWallet) SaveCredentials(_ context.Context, _ []*vc.Credential) error {
	return nil
}

type testAuth struct {
	signCalls int32
	lifetime  time.Duration
}

func (a *testAuth) CreateDidAuthResponseToken(
	_ context.Context, challenge string) (string, error) {
	atomic.AddInt32(&a.signCalls, 1)
	claims := jwt.MapClaims{
		"iss": "someDid",
		"exp": time.Now().Add(a.lifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
}

type channelServer struct {
	challengeCalls int32
	lastSendBody   map[string]string
}

func (cs *channelServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(didAuthRequestPath,
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&cs.challengeCalls, 1)
			_ = json.NewEncoder(w).Encode("someChallenge")
		})
	mux.HandleFunc(messagesPath,
		func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				http.Error(w, "no token", http.StatusUnauthorized)
				return
			}
			switch r.Method {
			case http.MethodPost:
				body := map[string]string{}
				_ = json.NewDecoder(r.Body).Decode(&body)
				cs.lastSendBody = body
				_ = json.NewEncoder(w).Encode(map[string]string{"id": "someId"})
			case http.MethodGet:
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"messages": []map[string]string{{
						"id":        "someId",
						"fromDid":   "otherDid",
						"createdAt": "someDateTime",
						"message":   "enc:hello",
					}},
				})
			}
		})
	mux.HandleFunc(messagePath,
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Error(w, "bad method", http.StatusMethodNotAllowed)
		})
	return mux
}

func newTestService(baseURL string, auth *testAuth) *Service {
	return &Service{
		wallet:  testWallet{},
		auth:    auth,
		baseURL: baseURL,
		client:  &http.Client{},
		now:     time.Now,
	}
}

func TestSend(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	cs := &channelServer{}
	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	s := newTestService(srv.URL, &testAuth{lifetime: time.Hour})
	response, err := s.Send(context.Background(), "otherDid",
		map[string]string{"token": "someResponseToken"})
	assert.NoError(err)
	assert.NotEmpty(string(response))

	assert.Equal(cs.lastSendBody["toDid"], "otherDid")
	assert.Equal(cs.lastSendBody["message"],
		`enc:{"token":"someResponseToken"}`)
}

func TestGetAllDecryptsInPlace(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	cs := &channelServer{}
	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	s := newTestService(srv.URL, &testAuth{lifetime: time.Hour})
	msgs, err := s.GetAll(context.Background())
	assert.NoError(err)
	assert.Equal(len(msgs), 1)
	assert.Equal(msgs[0].ID, "someId")
	assert.Equal(msgs[0].FromDid, "otherDid")
	assert.Equal(msgs[0].CreatedAt, "someDateTime")
	assert.Equal(string(msgs[0].Message), "hello")
}

func TestDelete(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	cs := &channelServer{}
	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	s := newTestService(srv.URL, &testAuth{lifetime: time.Hour})
	err := s.Delete(context.Background(), "someId")
	assert.NoError(err)
}

func TestGetTokenMemoization(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	cs := &channelServer{}
	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	auth := &testAuth{lifetime: time.Hour}
	s := newTestService(srv.URL, auth)
	ctx := context.Background()

	first, err := s.getToken(ctx)
	assert.NoError(err)
	assert.Equal(int(cs.challengeCalls), 1)
	assert.Equal(int(auth.signCalls), 1)

	second, err := s.getToken(ctx)
	assert.NoError(err)
	assert.Equal(second, first)
	// cached token: no extra round trip, no extra signature
	assert.Equal(int(cs.challengeCalls), 1)
	assert.Equal(int(auth.signCalls), 1)
}

func TestGetTokenRefreshesExpired(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	cs := &channelServer{}
	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	// tokens come out already stale
	auth := &testAuth{lifetime: -time.Hour}
	s := newTestService(srv.URL, auth)
	ctx := context.Background()

	_, err := s.getToken(ctx)
	assert.NoError(err)
	_, err = s.getToken(ctx)
	assert.NoError(err)

	assert.Equal(int(cs.challengeCalls), 2)
	assert.Equal(int(auth.signCalls), 2)
}

func TestExecuteStatusContract(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/ok":
				_ = json.NewEncoder(w).Encode(map[string]string{"a": "b"})
			case "/empty":
				w.WriteHeader(http.StatusNoContent)
			default:
				http.Error(w, "boom", http.StatusInternalServerError)
			}
		}))
	defer srv.Close()

	s := newTestService(srv.URL, &testAuth{lifetime: time.Hour})
	ctx := context.Background()

	data, err := s.execute(ctx, "/ok", http.MethodGet, "someToken", nil)
	assert.NoError(err)
	var body map[string]string
	try.To(json.Unmarshal(data, &body))
	assert.Equal(body["a"], "b")

	data, err = s.execute(ctx, "/empty", http.MethodGet, "someToken", nil)
	assert.NoError(err)
	assert.That(data == nil)

	_, err = s.execute(ctx, "/fail", http.MethodGet, "someToken", nil)
	assert.Error(err)
	assert.That(strings.Contains(err.Error(),
		http.StatusText(http.StatusInternalServerError)))
}

func TestBuildURL(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	s := &Service{baseURL: "https://messages.example.com/api/v1"}
	assert.Equal(s.buildURL("/messages"),
		"https://messages.example.com/api/v1/messages")
}

func TestCacheValidity(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	now := time.Now()
	c := tokenCache{}
	assert.ThatNot(c.isValid(now))

	live := try.To1(jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType))
	c.set(live)
	assert.That(c.isValid(now))
	assert.ThatNot(c.isValid(now.Add(2 * time.Hour)))

	c.set("garbage")
	assert.ThatNot(c.isValid(now))
}
