package cmd

import (
	"log"
	"os"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/vcwallet/wallet-agent/cmds/onboard"
)

var onboardEnvs = map[string]string{
	"username": "USERNAME",
	"password": "PASSWORD",
	"token":    "TOKEN",
	"code":     "CODE",
}

var (
	signupCmdData  = onboard.SignUpCmd{}
	confirmCmdData = onboard.ConfirmCmd{}
)

// onboardCmd represents the onboard subcommand
var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create a cloud wallet account",
	Long: `
Create a cloud wallet account. The command prints a signup token; finish
the account with the confirm subcommand and the emailed confirmation code.

Example
	wallet-agent onboard \
		--storage-key 15308490f1e...bb92d4336c \
		--username holder@example.com \
		--password somePassword
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(onboardEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		signupCmdData.Cmd = baseCmd()
		try.To(signupCmdData.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(signupCmdData.Exec(os.Stdout))
		}
		return nil
	},
}

// onboardConfirmCmd represents the onboard confirm subcommand
var onboardConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Finish the signup with the emailed confirmation code",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(onboardEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		confirmCmdData.Cmd = baseCmd()
		try.To(confirmCmdData.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(confirmCmdData.Exec(os.Stdout))
		}
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := onboardCmd.Flags()
	flags.StringVar(&signupCmdData.Username, "username", "", flagInfo("account email", onboardCmd.Name(), onboardEnvs["username"]))
	flags.StringVar(&signupCmdData.Password, "password", "", flagInfo("account password", onboardCmd.Name(), onboardEnvs["password"]))

	confirmFlags := onboardConfirmCmd.Flags()
	confirmFlags.StringVar(&confirmCmdData.Token, "token", "", flagInfo("signup token", onboardConfirmCmd.Name(), onboardEnvs["token"]))
	confirmFlags.StringVar(&confirmCmdData.Code, "code", "", flagInfo("emailed confirmation code", onboardConfirmCmd.Name(), onboardEnvs["code"]))

	onboardCmd.AddCommand(onboardConfirmCmd)
	rootCmd.AddCommand(onboardCmd)
}
