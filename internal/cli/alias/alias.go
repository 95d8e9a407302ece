package alias

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"revq/internal/cli/utils"
	"revq/internal/configutils"
	"revq/internal/errcodes"
	"revq/internal/pkg/fs"
)

var saveGlobalConfig = configutils.SaveGlobalConfig

func runSet(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])
	command := strings.Join(strings.Fields(args[1]), " ")

	if command == "" {
		return errcodes.ErrMissingAliasCommand
	}

	err := saveGlobalConfig(map[string]interface{}{
		"alias." + name: command,
	}, fs.OS{})
	if err != nil {
		return err
	}

	fmt.Printf("Alias %s -> %s saved\n", name, command)

	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])

	aliases := viper.GetStringMapString("alias")
	if _, ok := aliases[name]; !ok {
		return errcodes.ErrUnknownAlias
	}

	delete(aliases, name)
	err := saveGlobalConfig(map[string]interface{}{"alias": aliases}, fs.OS{})
	if err != nil {
		return err
	}

	fmt.Printf("Alias %s removed\n", name)

	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	aliases := viper.GetStringMapString("alias")
	if len(aliases) == 0 {
		fmt.Println("No aliases configured")
		return nil
	}

	fmt.Println(renderTable(aliases))

	return nil
}

func renderTable(aliases map[string]string) string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	table := uitable.New()
	table.AddRow("ALIAS", "COMMAND")
	table.AddRow("-----", "-------")
	for _, name := range names {
		table.AddRow(name, aliases[name])
	}

	return table.String()
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage command aliases",
		Long:  `Maps short names to revq command lines, resolved by the root command on invocation`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME COMMAND",
		Short: "Add or update an alias",
		Long:  `Stores a command line under a short name, e.g. 'revq alias set prs "pr list --filter reviewing"'`,
		Args:  cobra.ExactArgs(2),
		Run:   utils.RunCommandWrapper(runSet),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove an alias",
		Args:    cobra.ExactArgs(1),
		Run:     utils.RunCommandWrapper(runRemove),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured aliases",
		Run:     utils.RunCommandWrapper(runList),
	})

	return cmd
}
