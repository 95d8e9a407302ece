package auth

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"revq/internal/cli/utils"
	"revq/internal/configutils"
	"revq/internal/pkg/bitbucket"
	"revq/internal/pkg/client"
	"revq/internal/pkg/fs"
)

// promptCredentials and verifyCredentials are seams for tests.
var promptCredentials = func() (string, string, error) {
	username := ""
	err := survey.AskOne(
		&survey.Input{Message: "Username"},
		&username,
		survey.WithValidator(survey.Required),
	)
	if err != nil {
		return "", "", err
	}

	password := ""
	err = survey.AskOne(
		&survey.Password{Message: "App password"},
		&password,
		survey.WithValidator(survey.Required),
	)
	if err != nil {
		return "", "", err
	}

	return username, password, nil
}

var verifyCredentials = func(username, password string) (*client.UserStatus, error) {
	c := bitbucket.New(&bitbucket.ClientOptions{
		Username: username,
		Password: password,
	})

	return c.GetCurrentUserStatus()
}

var saveCredentials = func(username, password, uuid string) error {
	return configutils.SaveGlobalConfig(map[string]interface{}{
		"auth.username":     username,
		"auth.app_password": password,
		"auth.uuid":         uuid,
	}, fs.OS{})
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, password, err := promptCredentials()
	if err != nil {
		return err
	}

	status, err := verifyCredentials(username, password)
	if err != nil {
		return errors.Wrap(err, "unable to verify credentials")
	}

	err = saveCredentials(username, password, status.User.UUID)
	if err != nil {
		return err
	}

	fmt.Println("Credentials saved")
	for _, line := range status.StatusLines() {
		fmt.Println(line)
	}

	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	err := configutils.RemoveGlobalConfigSection("auth", fs.OS{})
	if err != nil {
		return err
	}

	fmt.Println("Logged out of bitbucket.org")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := bitbucket.DefaultClient()
	if err != nil {
		return err
	}

	status, err := c.GetCurrentUserStatus()
	if err != nil {
		return err
	}

	for _, line := range status.StatusLines() {
		fmt.Println(line)
	}

	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage bitbucket credentials",
		Long:  `Stores, checks and removes the app password used to talk to Bitbucket Cloud`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Store bitbucket credentials",
		Long:  `Verifies the given username and app password and stores them in the global config`,
		Run:   utils.RunCommandWrapper(runLogin),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Run:   utils.RunCommandWrapper(runLogout),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the authenticated user",
		Run:   utils.RunCommandWrapper(runStatus),
	})

	return cmd
}
