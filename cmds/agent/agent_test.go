package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vcwallet/wallet-agent/cmds"
)

var validBase = cmds.Cmd{
	StoragePath: ".",
	StorageKey:  "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c",
}

func TestCmd_Build(t *testing.T) {
	invalid := ShareCmd{Cmd: cmds.Cmd{
		StoragePath: "",
		StorageKey:  "test-key",
	}}
	err := invalid.Validate()
	assert.Error(t, err)

	noToken := ShareCmd{Cmd: validBase}
	err = noToken.Validate()
	assert.Error(t, err)

	c := ShareCmd{Cmd: validBase, Token: "someToken"}
	err = c.Validate()
	assert.NoError(t, err)
}

func TestAcceptCmd_Build(t *testing.T) {
	noURL := AcceptCmd{Cmd: validBase}
	err := noURL.Validate()
	assert.Error(t, err)

	c := AcceptCmd{Cmd: validBase, VCURL: "https://wallet.example.com/vc/1"}
	err = c.Validate()
	assert.NoError(t, err)
}

func TestListenCmd_Build(t *testing.T) {
	noInterval := ListenCmd{Cmd: validBase}
	err := noInterval.Validate()
	assert.Error(t, err)

	badTime := ListenCmd{Cmd: validBase, At: "25:70"}
	err = badTime.Validate()
	assert.Error(t, err)

	c := ListenCmd{Cmd: validBase, Interval: 30}
	err = c.Validate()
	assert.NoError(t, err)

	daily := ListenCmd{Cmd: validBase, At: "04:30"}
	err = daily.Validate()
	assert.NoError(t, err)
}

func TestRemoveMsgCmd_Build(t *testing.T) {
	noID := RemoveMsgCmd{Cmd: validBase}
	err := noID.Validate()
	assert.Error(t, err)

	c := RemoveMsgCmd{Cmd: validBase, ID: "someMessageId"}
	err = c.Validate()
	assert.NoError(t, err)
}
