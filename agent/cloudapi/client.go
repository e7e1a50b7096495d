// Package cloudapi is the REST client for the cloud wallet API: account
// lifecycle (signup, confirm, login, logout) and the signed credential
// directory. Wire shapes follow the cloud wallet service contract.
package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/utils"
	"github.com/vcwallet/wallet-agent/agent/vc"
)

// errorMessageMaxLength is the maximum length of the response body we will
// include into the generated error message
const errorMessageMaxLength = 80

const (
	signupPath        = "/users/signup"
	confirmSignupPath = "/users/signup/confirm"
	loginPath         = "/users/login"
	logoutPath        = "/users/logout"
	credentialsPath   = "/wallet/credentials"
)

// TokenStore is where the client keeps the cloud wallet access token
// between commands. Logout clears the whole session, not only the token.
type TokenStore interface {
	AccessToken() (string, error)
	SetAccessToken(token string) error
	ClearSession() error
}

// Client calls the cloud wallet API. The zero value is not usable, build
// it with New.
type Client struct {
	base   string
	client *http.Client
	tokens TokenStore
}

// New builds a cloud wallet API client from the process-wide settings.
func New(tokens TokenStore) *Client {
	return &Client{
		base:   utils.Settings.WalletAPIURL(),
		client: &http.Client{Timeout: utils.Settings.Timeout()},
		tokens: tokens,
	}
}

// SignUp starts account creation and returns the signup token the service
// wants back together with the confirmation code.
func (c *Client) SignUp(
	ctx context.Context,
	username, password string,
) (
	token string,
	err error,
) {
	defer err2.Handle(&err, "signup")

	data := try.To1(c.post(ctx, signupPath, map[string]string{
		"username": username,
		"password": password,
	}, false))

	try.To(json.Unmarshal(data, &token))
	return token, nil
}

// ConfirmSignUp finishes account creation with the emailed confirmation
// code and stores the returned access token for the commands that follow.
func (c *Client) ConfirmSignUp(
	ctx context.Context,
	token, confirmationCode string,
) (err error) {
	defer err2.Handle(&err, "confirm signup")

	data := try.To1(c.post(ctx, confirmSignupPath, map[string]string{
		"token":            token,
		"confirmationCode": confirmationCode,
	}, false))

	return c.saveAccessToken(data)
}

// Login authenticates with username and password and stores the returned
// access token.
func (c *Client) Login(
	ctx context.Context,
	username, password string,
) (err error) {
	defer err2.Handle(&err, "login")

	data := try.To1(c.post(ctx, loginPath, map[string]string{
		"username": username,
		"password": password,
	}, false))

	return c.saveAccessToken(data)
}

// Logout ends the cloud wallet session. The local session is cleared even
// when the server-side call fails, so a broken network cannot lock the
// holder in.
func (c *Client) Logout(ctx context.Context) (err error) {
	defer err2.Handle(&err, "logout")

	_, callErr := c.post(ctx, logoutPath, nil, true)
	if callErr != nil {
		glog.Warningln("logout call:", callErr)
	}

	try.To(c.tokens.ClearSession())
	return nil
}

// StoreSignedVCs saves signed credentials to the cloud wallet and returns
// the ids the directory assigned to them.
func (c *Client) StoreSignedVCs(
	ctx context.Context,
	creds []*vc.Credential,
) (
	credentialIds []string,
	err error,
) {
	defer err2.Handle(&err, "store signed vcs")

	data := try.To1(c.post(ctx, credentialsPath, map[string]interface{}{
		"data": creds,
	}, true))

	var reply struct {
		CredentialIds []string `json:"credentialIds"`
	}
	try.To(json.Unmarshal(data, &reply))
	return reply.CredentialIds, nil
}

func (c *Client) saveAccessToken(data []byte) (err error) {
	defer err2.Handle(&err, "save access token")

	var reply struct {
		AccessToken string `json:"accessToken"`
	}
	try.To(json.Unmarshal(data, &reply))
	try.To(c.tokens.SetAccessToken(reply.AccessToken))
	return nil
}

func (c *Client) post(
	ctx context.Context,
	apiPath string,
	body interface{},
	authorized bool,
) (
	data []byte,
	err error,
) {
	defer err2.Handle(&err, "call cloud wallet api")

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(try.To1(json.Marshal(body)))
	} else {
		reader = bytes.NewReader(nil)
	}

	request := try.To1(http.NewRequestWithContext(
		ctx, http.MethodPost, c.base+apiPath, reader))
	request.Close = true // deferred response.Body.Close isn't always enough
	request.Header.Set("Content-Type", "application/json")

	if authorized {
		token := try.To1(c.tokens.AccessToken())
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response := try.To1(c.client.Do(request))
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			glog.Warningln("body.Close: ", closeErr)
		}
	}()

	data = try.To1(io.ReadAll(response.Body))

	return checkHTTPStatus(response, data)
}

// checkHTTPStatus checks the status code and gets the server message
func checkHTTPStatus(response *http.Response, data []byte) ([]byte, error) {
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		glog.Warning("http code:", response.Status)
		contentType := response.Header.Get("Content-type")
		if strings.HasPrefix(contentType, "text/plain") {
			l := len(data)
			return nil, fmt.Errorf("%s: %s",
				response.Status, data[0:min(errorMessageMaxLength, l)])
		}
		return nil, fmt.Errorf("%v", response.Status)
	}
	return data, nil
}
