package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"revq/internal/errcodes"
	"revq/internal/gitutils"
	"revq/internal/pkg/client"
	"revq/internal/systemcodes"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type runCommandError func(*cobra.Command, []string) error
type runCommandNoError func(*cobra.Command, []string)

// RunCommandWrapper adapts an error returning command handler to the
// signature cobra expects and converts the error into an exit code.
func RunCommandWrapper(fn runCommandError) runCommandNoError {
	return func(cmd *cobra.Command, args []string) {
		err := fn(cmd, args)
		if err == nil {
			return
		}

		fmt.Println(err)

		switch {
		case errors.Is(err, errcodes.ErrMissingCredentials),
			errors.Is(err, errcodes.ErrMissingRepository),
			errors.Is(err, errcodes.ErrMissingProvider),
			errors.Is(err, errcodes.ErrRepositoryMustBeInFormOwnerRepo),
			errors.Is(err, errcodes.ErrRepositoryProviderUnknown):
			os.Exit(systemcodes.ErrorCodeConfigError)
		case errors.Is(err, gitutils.ErrCannotGetLocalRepository):
			os.Exit(systemcodes.ErrorCodeNotRepository)
		default:
			os.Exit(systemcodes.ErrorCodeGeneric)
		}
	}
}

// OpenInBrowser opens the URL with the platform's default browser.
func OpenInBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	}

	return fmt.Errorf("unsupported platform %s", runtime.GOOS)
}

const messageSeparator = "------"

// CombineTitleAndDescription builds the buffer handed to the message
// editor, title above the separator and description below it.
func CombineTitleAndDescription(title, description string) string {
	return fmt.Sprintf("%s\n%s\n%s", title, messageSeparator, description)
}

// SplitTitleAndDescription parses an edited message buffer. Everything
// above the first separator line becomes the title, everything below it
// the description. A buffer without a separator is all title.
func SplitTitleAndDescription(text string) (string, string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 3 && strings.Count(trimmed, "-") == len(trimmed) {
			title := strings.TrimSpace(strings.Join(lines[:i], " "))
			description := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return title, description
		}
	}

	return strings.TrimSpace(strings.Join(lines, " ")), ""
}

// PromptMessageEditor opens the user's editor on the combined pull
// request message and returns the edited title and description.
func PromptMessageEditor(title, description string) (string, string, error) {
	edited := ""
	prompt := &survey.Editor{
		Message:       "Pull request message",
		FileName:      "revq-message-*.md",
		Default:       CombineTitleAndDescription(title, description),
		AppendDefault: true,
		HideDefault:   true,
	}
	err := survey.AskOne(prompt, &edited)
	if err != nil {
		return "", "", err
	}

	t, d := SplitTitleAndDescription(edited)
	return t, d, nil
}

// ReviewerLabel renders a reviewer candidate for prompt options.
func ReviewerLabel(u *client.User) string {
	if u.Nickname != "" && u.Nickname != u.DisplayName {
		return fmt.Sprintf("%s (%s)", u.DisplayName, u.Nickname)
	}

	return u.DisplayName
}

// PromptReviewerMultiSelect asks which of the candidate users to add as
// reviewers. The first preselected candidates start out checked.
func PromptReviewerMultiSelect(
	candidates []*client.User,
	preselected int,
) ([]*client.User, error) {
	options := make([]string, 0, len(candidates))
	for _, u := range candidates {
		options = append(options, ReviewerLabel(u))
	}

	if preselected > len(options) {
		preselected = len(options)
	}

	answers := []string{}
	prompt := &survey.MultiSelect{
		Message:  "Reviewers",
		Options:  options,
		Default:  options[:preselected],
		PageSize: 10,
	}
	err := survey.AskOne(prompt, &answers)
	if err != nil {
		return nil, err
	}

	claimed := make(map[int]bool, len(answers))
	selected := make([]*client.User, 0, len(answers))
	for _, a := range answers {
		for i, o := range options {
			if o == a && !claimed[i] {
				claimed[i] = true
				selected = append(selected, candidates[i])
				break
			}
		}
	}

	return selected, nil
}
