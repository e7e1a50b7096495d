package cmds

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/vcwallet/wallet-agent/agent/cloudapi"
	"github.com/vcwallet/wallet-agent/agent/msg"
	"github.com/vcwallet/wallet-agent/agent/sdk"
	"github.com/vcwallet/wallet-agent/agent/session"
	"github.com/vcwallet/wallet-agent/agent/utils"
)

// storageKeyLength is the byte length of the hex-decoded storage key.
const storageKeyLength = 32

var ErrInvalid = errors.New("invalid command, check arguments")

// Cmd is the base of every wallet command: where the session storage file
// lives and the key that opens it.
type Cmd struct {
	StoragePath string `cmd_usage:"storage path is required"`
	StorageKey  string `cmd_usage:"storage key is required"`
}

func (c Cmd) Validate() error {
	if c.StoragePath == "" {
		return errors.New("storage path cannot be empty")
	}
	if err := c.ValidateStorageKey(); err != nil {
		return err
	}
	return nil
}

func (c Cmd) ValidateStorageKey() error {
	return ValidateKey(c.StorageKey)
}

func ValidateKey(k string) error {
	if k == "" {
		return errors.New("storage key cannot be empty")
	}
	data, err := hex.DecodeString(k)
	if err != nil || len(data) != storageKeyLength {
		return errors.New("storage key is not valid")
	}
	return nil
}

// Edge is one open wallet session an executing command works through.
type Edge struct {
	Cmd
	Store *session.Store
}

// Provider builds the wallet session provider over the open storage.
func (edge Edge) Provider() *sdk.LocalProvider {
	return &sdk.LocalProvider{Store: edge.Store}
}

// Messenger opens the message channel session for the wallet.
func (edge Edge) Messenger(ctx context.Context) (m *msg.Service, err error) {
	defer err2.Handle(&err, "messenger")

	w := try.To1(edge.Provider().Init(ctx))
	return msg.New(w, w.(sdk.DidAuth)), nil
}

// CloudWallet returns the cloud wallet API client bound to the session.
func (edge Edge) CloudWallet() *cloudapi.Client {
	return cloudapi.New(edge.Store)
}

type Result interface {
	JSON() ([]byte, error)
}

type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// Exec opens the session storage, runs f through the resulting edge and
// closes the storage when f returns.
func (c Cmd) Exec(f func(edge Edge) (Result, error)) (r Result, err error) {
	defer err2.Handle(&err)

	utils.Settings.SetStoragePath(c.StoragePath)
	utils.Settings.SetStorageKey(c.StorageKey)

	store := try.To1(session.Open())
	defer func() {
		_ = store.Close()
	}()

	return f(Edge{Cmd: c, Store: store})
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws
// an error.
func Fprintln(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws
// an error.
func Fprintf(w io.Writer, format string, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}

// Fprint is fmt.Fprint but it allows writer to be nil. Note! it throws
// an error.
func Fprint(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprint(w, a...))
	}
}

// ParseLoggingArgs feeds glog startup arguments given as one string to the
// flag package.
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	args = append(args, strings.Split(s, " ")...)
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}

// ValidateTime checks a clock time given as HH:MM or HH:MM:SS.
func ValidateTime(t string) (err error) {
	if _, err = time.Parse("15:04", t); err == nil {
		return nil
	}
	if _, err = time.Parse("15:04:05", t); err == nil {
		return nil
	}
	return fmt.Errorf("time %s is not HH:MM or HH:MM:SS", t)
}

func Progress(w io.Writer) chan<- struct{} {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(300 * time.Millisecond):
				Fprint(w, ".")
			}
		}
	}()
	return done
}
