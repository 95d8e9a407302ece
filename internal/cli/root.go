package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	aliascmd "revq/internal/cli/alias"
	authcmd "revq/internal/cli/auth"
	browsecmd "revq/internal/cli/browse"
	prcmd "revq/internal/cli/pr"
	reviewcmd "revq/internal/cli/review"
	"revq/internal/cli/utils"
	"revq/internal/configutils"
	"revq/internal/gitutils"
	"revq/internal/systemcodes"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "revq",
	Short:   "revq terminal client for pull requests",
	Long:    `Terminal client for reviewing Bitbucket Cloud pull requests.`,
	Version: fmt.Sprintf("%v, commit %v, built at %v", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setUpLogging(cmd)

		if err := loadConfig(cmd); err != nil {
			fmt.Println(err)
			os.Exit(systemcodes.ErrorCodeConfigError)
		}
	},
	Run: utils.RunCommandWrapper(reviewcmd.RunTUI),
}

// setUpLogging sends both loggers to a file. The terminal interface
// owns the screen, logging to stderr would draw over it.
func setUpLogging(cmd *cobra.Command) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logrus.SetLevel(logrus.InfoLevel)
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	}

	dir, err := homedir.Expand("~/.config/revq")
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	f, err := os.OpenFile(
		filepath.Join(dir, "revq.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return
	}

	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	logrus.SetOutput(f)
}

// loadConfig merges the resolved configuration into the global viper
// instance every command reads from. An explicit --config path wins
// over the global plus local chain.
func loadConfig(cmd *cobra.Command) error {
	if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}

		return viper.MergeConfigMap(v.AllSettings())
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	if root, err := gitutils.GetRepoRootDir(wd); err == nil {
		wd = root
	}

	v, err := configutils.LoadConfigForPath(wd)
	if err != nil {
		return err
	}

	return viper.MergeConfigMap(v.AllSettings())
}

// resolveAliases rewrites the invocation when its command word is a
// configured alias. The table maps an invoked name to a replacement
// command line; a name that is neither a command nor an alias, or an
// alias whose target command does not exist, fails explicitly.
func resolveAliases(
	root *cobra.Command,
	table map[string]string,
	args []string,
) ([]string, error) {
	if len(args) == 0 {
		return args, nil
	}

	name := args[0]
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "__") {
		return args, nil
	}
	if findCommand(root, name) {
		return args, nil
	}

	words := strings.Fields(table[strings.ToLower(name)])
	if len(words) == 0 || !findCommand(root, words[0]) {
		return nil, fmt.Errorf("no such command or alias %q", name)
	}

	return append(words, args[1:]...), nil
}

func findCommand(root *cobra.Command, name string) bool {
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}

	return false
}

// aliasTable reads the alias section once at startup. Resolution runs
// before cobra parses anything, so an explicit --config path is picked
// out of the raw arguments.
func aliasTable(args []string) map[string]string {
	if path := configFlagValue(args); path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil
		}

		return v.GetStringMapString("alias")
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	if root, err := gitutils.GetRepoRootDir(wd); err == nil {
		wd = root
	}

	v, err := configutils.LoadConfigForPath(wd)
	if err != nil {
		return nil
	}

	return v.GetStringMapString("alias")
}

func configFlagValue(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}

	return ""
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the revq version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("revq version %s\n", rootCmd.Version)
		},
	}
}

func Execute() {
	rootCmd.AddCommand(
		reviewcmd.New(),
		prcmd.New(),
		authcmd.New(),
		aliascmd.New(),
		browsecmd.New(),
		versionCommand(),
	)

	rootCmd.PersistentFlags().
		StringP("repository", "r", "", "repository in form of workspace/repo")
	rootCmd.PersistentFlags().
		StringP("provider", "p", "", "repository host, values - (bitbucket)")
	rootCmd.PersistentFlags().String("config", "", "config file path")
	rootCmd.PersistentFlags().Bool("debug", false, "write debug logs")

	rootCmd.InitDefaultHelpCmd()
	rootCmd.InitDefaultCompletionCmd()

	args := os.Args[1:]
	resolved, err := resolveAliases(rootCmd, aliasTable(args), args)
	if err != nil {
		fmt.Println(err)
		os.Exit(systemcodes.ErrorCodeGeneric)
	}
	rootCmd.SetArgs(resolved)

	rootCmd.Execute()
}
