package main

import (
	"github.com/golang/glog"
	"github.com/vcwallet/wallet-agent/cmd"
)

func main() {
	defer glog.Flush()

	cmd.Execute()
}
