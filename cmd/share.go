package cmd

import (
	"log"
	"os"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/vcwallet/wallet-agent/cmds/agent"
)

var shareEnvs = map[string]string{
	"token": "TOKEN",
	"index": "INDEX",
}

var shCmd = agent.ShareCmd{}

// shareCmd represents the share command
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Run the credential share flow for a share request token",
	Long: `
Run the credential share flow for a share request token.

The eligible credentials are listed and the one picked with --index is
disclosed to the requester over the encrypted message channel.

Example
	wallet-agent share \
		--storage-key 15308490f1e...bb92d4336c \
		--token eyJhbGciOi... \
		--index 0
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(shareEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		shCmd.Cmd = baseCmd()
		try.To(shCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(shCmd.Exec(os.Stdout))
		}
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := shareCmd.Flags()
	flags.StringVar(&shCmd.Token, "token", "", flagInfo("credential share request token", shareCmd.Name(), shareEnvs["token"]))
	flags.IntVar(&shCmd.Index, "index", 0, flagInfo("index of the disclosed credential", shareCmd.Name(), shareEnvs["index"]))

	rootCmd.AddCommand(shareCmd)
}
