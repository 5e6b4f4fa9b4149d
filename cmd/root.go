package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldops/weekplan/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "weekplan",
	Short: "Weekly field-visit planning engine",
	Long: `weekplan turns a backlog of field-visit jobs into a realistic week
of AM/PM sessions, balancing urgency deadlines against geographic
coherence. Overflow stays visible in the remaining backlog.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (json or yaml)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configured file, falling back to defaults when no
// file was given.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			cfgPath = "config.yaml"
		} else {
			return config.Default(), nil
		}
	}
	return config.Load(cfgPath)
}
