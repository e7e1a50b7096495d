package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vcwallet/wallet-agent/agent/utils"
	"github.com/vcwallet/wallet-agent/cmds"
)

const envPrefix = "VCW"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: utils.Version,
	Use:     "wallet-agent",
	Short:   "Wallet agent cli tool",
	Long: `
Wallet agent cli tool
	`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmds.ParseLoggingArgs(rootFlags.logging)
		handleViperFlags(cmd)

		utils.Settings.SetVersionInfo(utils.Version)
		utils.Settings.SetMessagingURL(cFlags.MessagingURL)
		utils.Settings.SetWalletAPIURL(cFlags.WalletAPIURL)
	},
}

// Execute root
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// To fix errors printed twice removing the cobra generators next
		// see: https://github.com/spf13/cobra/issues/304
		// fmt.Println(err)

		os.Exit(1)
	}
}

// RootCmd returns a current root command which can be used for adding own
// commands in an own repo.
func RootCmd() *cobra.Command {
	return rootCmd
}

// DryRun returns a value of a dry run flag.
func DryRun() bool {
	return rootFlags.dryRun
}

// RootFlags are the common flags
type RootFlags struct {
	cfgFile string
	dryRun  bool
	logging string
}

// ClientFlags are the wallet session flags every holder command needs.
type ClientFlags struct {
	StoragePath  string
	StorageKey   string
	MessagingURL string
	WalletAPIURL string
}

var rootFlags = RootFlags{}

var cFlags = ClientFlags{}

var rootEnvs = map[string]string{
	"config":  "CONFIG",
	"logging": "LOGGING",
	"dry-run": "DRY_RUN",
}

var clientEnvs = map[string]string{
	"storage-path":  "STORAGE_PATH",
	"storage-key":   "STORAGE_KEY",
	"messaging-url": "MESSAGING_URL",
	"wallet-url":    "WALLET_URL",
}

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.cfgFile, "config", "", flagInfo("configuration file", "", rootEnvs["config"]))
	flags.StringVar(&rootFlags.logging, "logging", "-logtostderr=true -v=2", flagInfo("logging startup arguments", "", rootEnvs["logging"]))
	flags.BoolVarP(&rootFlags.dryRun, "dry-run", "n", false, flagInfo("perform a trial run with no changes made", "", rootEnvs["dry-run"]))

	flags.StringVar(&cFlags.StoragePath, "storage-path", ".", flagInfo("wallet storage directory", "", clientEnvs["storage-path"]))
	flags.StringVar(&cFlags.StorageKey, "storage-key", "", flagInfo("wallet storage key", "", clientEnvs["storage-key"]))
	flags.StringVar(&cFlags.MessagingURL, "messaging-url", "http://localhost:8070", flagInfo("message service base address", "", clientEnvs["messaging-url"]))
	flags.StringVar(&cFlags.WalletAPIURL, "wallet-url", "http://localhost:8080", flagInfo("cloud wallet api base address", "", clientEnvs["wallet-url"]))

	try.To(viper.BindPFlag("logging", flags.Lookup("logging")))
	try.To(viper.BindPFlag("dry-run", flags.Lookup("dry-run")))

	try.To(BindEnvs(rootEnvs, ""))
	try.To(BindEnvs(clientEnvs, ""))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	readConfigFile()
	readBoundRootFlags()
}

func readBoundRootFlags() {
	rootFlags.logging = viper.GetString("logging")
	rootFlags.dryRun = viper.GetBool("dry-run")
}

func readConfigFile() {
	cfgEnv := os.Getenv(getEnvName("", "config"))
	if rootFlags.cfgFile != "" || cfgEnv != "" {
		printInfo := true
		if rootFlags.cfgFile == "" {
			rootFlags.cfgFile = cfgEnv
			printInfo = false
		}
		viper.SetConfigFile(rootFlags.cfgFile)
		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err == nil && printInfo {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// BindEnvs calls viper.BindEnv with envMap and cmdName which can be empty if
// flag is general.
func BindEnvs(envMap map[string]string, cmdName string) (err error) {
	defer err2.Handle(&err)
	for flagKey, envName := range envMap {
		finalEnvName := getEnvName(cmdName, envName)
		try.To(viper.BindEnv(flagKey, finalEnvName))
	}
	return nil
}

func flagInfo(info, cmdPrefix, envName string) string {
	return info + ", " + getEnvName(cmdPrefix, envName)
}

func getEnvName(cmdName, envName string) string {
	if cmdName == "" {
		return envPrefix + "_" + strings.ToUpper(envName)
	}
	return envPrefix + "_" + strings.ToUpper(cmdName) + "_" + envName
}

func handleViperFlags(cmd *cobra.Command) {
	setRequiredStringFlags(cmd)
	if cmd.HasParent() {
		handleViperFlags(cmd.Parent())
	}
}

func setRequiredStringFlags(cmd *cobra.Command) {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	try.To(viper.BindPFlags(cmd.LocalFlags()))
	if cmd.PreRunE != nil {
		try.To(cmd.PreRunE(cmd, nil))
	}
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if viper.GetString(f.Name) != "" {
			try.To(cmd.LocalFlags().Set(f.Name, viper.GetString(f.Name)))
		}
	})
}

// SubCmdNeeded prints the help and error messages because the cmd is abstract.
func SubCmdNeeded(cmd *cobra.Command) {
	fmt.Println("Subcommand needed!")
	_ = cmd.Help()
	os.Exit(1)
}

// baseCmd builds the command base every executing command needs from the
// bound client flags.
func baseCmd() cmds.Cmd {
	return cmds.Cmd{
		StoragePath: cFlags.StoragePath,
		StorageKey:  cFlags.StorageKey,
	}
}
