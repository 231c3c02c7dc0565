package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type envSection struct {
	title string
	flags []string
}

var envSections = []envSection{
	{title: "Yandex Music API", flags: []string{"yandex-token", "yandex-base-url", "yandex-language", "yandex-timeout"}},
	{title: "Resolver", flags: []string{"cover-size", "stream-concurrency"}},
	{title: "Application", flags: []string{"language", "flood-limit-per-minute", "queue-capacity"}},
	{title: "HTTP Server", flags: []string{"server-host", "server-port"}},
	{title: "Logging", flags: []string{
		"log-level", "log-file", "log-max-size-mb", "log-max-backups", "log-max-age-days",
	}},
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# yamusic Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: " + envPrefix + "_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	for _, section := range envSections {
		content.WriteString("# -----------------------------------------------------------------------------\n")
		fmt.Fprintf(&content, "# %s\n", section.title)
		content.WriteString("# -----------------------------------------------------------------------------\n")
		for _, name := range section.flags {
			flag := cmd.PersistentFlags().Lookup(name)
			if flag == nil {
				continue
			}
			fmt.Fprintf(&content, "# %s (--%s)\n", flag.Usage, name)
			fmt.Fprintf(&content, "%s=%s\n", flagToEnvVar(name), getDefaultValueString(cmd, name))
		}
		content.WriteString("\n")
	}

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}
