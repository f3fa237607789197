package cmd

import (
	"github.com/nftsweep/sdk-go/core/logging"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     *Config
)

var rootCmd = &cobra.Command{
	Use:          "batchbuy",
	Short:        "Build batch NFT purchase transactions",
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		loaded, err := Environment(envFile)
		if err != nil {
			return err
		}
		logger, err := logging.NewLogger(loaded.LogLevel)
		if err != nil {
			return err
		}
		logging.SetLogger(logger)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with BATCHBUY_* settings")
}

func Execute() error {
	rootCmd.AddCommand(cmdBuild)
	rootCmd.AddCommand(cmdDecode)
	return rootCmd.Execute()
}
