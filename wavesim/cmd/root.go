// Package cmd provides the command-line interface of wavesim.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wavesim",
	Short: "wavesim simulates clocks and gates with tri-state signals.",
	Long: `wavesim simulates clocks and gates with tri-state signals and ` +
		`records the sampled waveform as a trace. Defaults can be provided ` +
		`through WAVESIM_* environment variables or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		return loadEnvFile(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env",
		"File to load WAVESIM_* defaults from, if it exists")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newShowCommand())
}

// loadEnvFile loads the file into the environment. A missing file is not an
// error. Variables that are already set win over the file.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Registered exit handlers run before the process exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
