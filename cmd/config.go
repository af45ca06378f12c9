package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vantage/internal/appconfig"
	"vantage/internal/output"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage client configuration",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("server_url:      %s\n", appconfig.ServerURL())
		fmt.Printf("default_country: %s\n", appconfig.DefaultCountry())
		fmt.Printf("chat_delay:      %s\n", appconfig.ChatDelay())
		fmt.Printf("debug:           %v\n", appconfig.DebugEnabled())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in ~/.config/vantage/config.json.

Keys: server_url, default_country, chat_delay, debug`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := appconfig.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		switch key {
		case "server_url":
			cfg.ServerURL = value
		case "default_country":
			cfg.DefaultCountry = value
		case "chat_delay":
			cfg.ChatDelay = value
		case "debug":
			enabled := value == "true" || value == "1"
			cfg.Debug = &enabled
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		if err := appconfig.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		output.Success("%s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
