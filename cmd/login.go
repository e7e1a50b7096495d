package cmd

import (
	"log"
	"os"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/vcwallet/wallet-agent/cmds/onboard"
)

var loginEnvs = map[string]string{
	"username": "USERNAME",
	"password": "PASSWORD",
}

var loginCmdData = onboard.LoginCmd{}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the cloud wallet",
	Long: `
Log in to the cloud wallet. When a flow was interrupted by a login
redirect, the command tells where to resume: a pending credential offer
wins over a pending share request.

Example
	wallet-agent login \
		--storage-key 15308490f1e...bb92d4336c \
		--username holder@example.com \
		--password somePassword
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(loginEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		loginCmdData.Cmd = baseCmd()
		try.To(loginCmdData.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(loginCmdData.Exec(os.Stdout))
		}
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the cloud wallet session",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		logoutCmdData := onboard.LogoutCmd{Cmd: baseCmd()}
		try.To(logoutCmdData.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(logoutCmdData.Exec(os.Stdout))
		}
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := loginCmd.Flags()
	flags.StringVar(&loginCmdData.Username, "username", "", flagInfo("account email", loginCmd.Name(), loginEnvs["username"]))
	flags.StringVar(&loginCmdData.Password, "password", "", flagInfo("account password", loginCmd.Name(), loginEnvs["password"]))

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
