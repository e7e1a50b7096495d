package utils

import (
	"time"

	"github.com/golang/glog"
)

// Version is the current version of the wallet agent.
const Version = "0.9.0"

const HTTPReqTimeout = 1 * time.Minute

var Settings = &Hub{}

// Hub is the process-wide settings of the wallet agent. It's constructed
// once at startup and passed around by reference, never copied.
type Hub struct {
	messagingURL string // base URL of the store-and-forward message service
	walletAPIURL string // base URL of the cloud wallet REST API

	storagePath string // path for the agent's session storage file
	storageKey  string // hex key for the session storage cipher

	versionInfo string        // version number etc. in free format as a string
	timeout     time.Duration // timeout setting for http requests
}

// SetMessagingURL sets the base URL of the message service. All message
// channel paths are appended verbatim to it.
func (h *Hub) SetMessagingURL(u string) {
	h.messagingURL = u
}

func (h *Hub) MessagingURL() string {
	if h.messagingURL == "" && glog.V(3) {
		glog.Info("warning messaging URL is empty")
	}
	return h.messagingURL
}

// SetWalletAPIURL sets the base URL of the cloud wallet API which persists
// accounts and signed credentials.
func (h *Hub) SetWalletAPIURL(u string) {
	h.walletAPIURL = u
}

func (h *Hub) WalletAPIURL() string {
	return h.walletAPIURL
}

func (h *Hub) SetStoragePath(path string) {
	h.storagePath = path
}

func (h *Hub) StoragePath() string {
	return h.storagePath
}

func (h *Hub) SetStorageKey(key string) {
	h.storageKey = key
}

func (h *Hub) StorageKey() string {
	return h.storageKey
}

// SetVersionInfo sets current version info of this agent. The info is shown
// by the version command and in API calls.
func (h *Hub) SetVersionInfo(info string) {
	h.versionInfo = info
}

func (h *Hub) VersionInfo() string {
	return h.versionInfo
}

// SetTimeout sets the default timeout for HTTP requests.
func (h *Hub) SetTimeout(to time.Duration) {
	h.timeout = to
}

func (h *Hub) Timeout() time.Duration {
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

