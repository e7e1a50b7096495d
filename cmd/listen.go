package cmd

import (
	"log"
	"os"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/vcwallet/wallet-agent/cmds/agent"
)

var listenEnvs = map[string]string{
	"interval": "INTERVAL",
	"at":       "AT",
}

var lsCmd = agent.ListenCmd{}

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Poll the message channel and print arriving messages",
	Long: `
Poll the message channel on an interval and print every arriving message.
Drained messages are removed from the channel. With --at the inbox is
drained once a day at the given time instead.

Example
	wallet-agent listen \
		--storage-key 15308490f1e...bb92d4336c \
		--interval 30
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(listenEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		lsCmd.Cmd = baseCmd()
		try.To(lsCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(lsCmd.Exec(os.Stdout))
		}
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := listenCmd.Flags()
	flags.IntVar(&lsCmd.Interval, "interval", 30, flagInfo("poll interval in seconds", listenCmd.Name(), listenEnvs["interval"]))
	flags.StringVar(&lsCmd.At, "at", "", flagInfo("daily drain time as HH:MM", listenCmd.Name(), listenEnvs["at"]))

	rootCmd.AddCommand(listenCmd)
}
