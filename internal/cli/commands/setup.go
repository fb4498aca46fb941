package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"
)

// NewSetupCommand configures the CLI: Gemini API key in the system keyring
// and the local user identity.
func NewSetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure the CLI (Gemini API key, local identity)",
		Subcommands: []*cli.Command{
			{
				Name:  "gemini-key",
				Usage: "Store the Gemini API key in the system keyring",
				Action: func(c *cli.Context) error {
					return handleGeminiKey()
				},
			},
			{
				Name:  "show",
				Usage: "Show current setup state",
				Action: func(c *cli.Context) error {
					return handleSetupShow()
				},
			},
		},
		Action: func(c *cli.Context) error {
			return handleGeminiKey()
		},
	}
}

func handleGeminiKey() error {
	var apiKey string
	prompt := &survey.Password{
		Message: "Enter your Gemini API key:",
	}
	if err := survey.AskOne(prompt, &apiKey, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("could not read API key: %w", err)
	}

	if err := keyring.Set(keyringService, keyringAPIKey, apiKey); err != nil {
		return fmt.Errorf("could not store API key in keyring: %w", err)
	}

	fmt.Println("✅ Gemini API key saved to system keyring")
	return nil
}

func handleSetupShow() error {
	userID, err := localUserID()
	if err != nil {
		return err
	}
	fmt.Printf("👤 Local user ID: %s\n", userID)

	if _, err := keyring.Get(keyringService, keyringAPIKey); err == nil {
		fmt.Println("🔑 Gemini API key: configured (keyring)")
	} else {
		fmt.Println("🔑 Gemini API key: not configured")
		fmt.Println("💡 Run 'braindump setup gemini-key' or set GEMINI_API_KEY")
	}
	return nil
}
