package cmd

import (
	"log"
	"os"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/vcwallet/wallet-agent/cmds/agent"
)

var acceptEnvs = map[string]string{
	"vc-url": "VC_URL",
	"reject": "REJECT",
}

var accCmd = agent.AcceptCmd{}

// acceptCmd represents the accept command
var acceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Fetch an offered credential and save or reject it",
	Long: `
Fetch an offered credential from a share link and save it into the wallet.
With --reject the offer is discarded instead.

Example
	wallet-agent accept \
		--storage-key 15308490f1e...bb92d4336c \
		--vc-url https://wallet.example.com/vc/xyz
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(acceptEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		accCmd.Cmd = baseCmd()
		try.To(accCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(accCmd.Exec(os.Stdout))
		}
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := acceptCmd.Flags()
	flags.StringVar(&accCmd.VCURL, "vc-url", "", flagInfo("offered credential address", acceptCmd.Name(), acceptEnvs["vc-url"]))
	flags.BoolVar(&accCmd.Reject, "reject", false, flagInfo("discard the offer", acceptCmd.Name(), acceptEnvs["reject"]))

	rootCmd.AddCommand(acceptCmd)
}
