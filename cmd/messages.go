package cmd

import (
	"log"
	"os"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/vcwallet/wallet-agent/cmds/agent"
)

var (
	msgListCmd = agent.MessagesCmd{}
	msgRmCmd   = agent.RemoveMsgCmd{}
)

// messagesCmd represents the messages command
var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List the wallet's pending channel messages",
	Long: `
List the wallet's pending channel messages, decrypted.

Example
	wallet-agent messages \
		--storage-key 15308490f1e...bb92d4336c
`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		msgListCmd.Cmd = baseCmd()
		try.To(msgListCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(msgListCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var rmEnvs = map[string]string{
	"id": "ID",
}

// messagesRmCmd represents the messages rm subcommand
var messagesRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove one message from the channel by id",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(rmEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		msgRmCmd.Cmd = baseCmd()
		try.To(msgRmCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(msgRmCmd.Exec(os.Stdout))
		}
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := messagesRmCmd.Flags()
	flags.StringVar(&msgRmCmd.ID, "id", "", flagInfo("message id", messagesRmCmd.Name(), rmEnvs["id"]))

	messagesCmd.AddCommand(messagesRmCmd)
	rootCmd.AddCommand(messagesCmd)
}
