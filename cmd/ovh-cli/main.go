package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ovhkit/ovh"
)

var (
	flagEndpoint string
	flagDebug    bool

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ovh-cli",
	Short: "Signed calls against the OVH API",
	Long: `ovh-cli makes authenticated calls against the OVH API using the
application credentials and consumer key from the environment or ovh.conf.
Use "login" to obtain a consumer key, then any of get/post/put/delete.`,
	SilenceUsage: true,
}

// buildClient resolves credentials and applies the CLI's flags on top.
func buildClient() (*ovh.Client, error) {
	c, err := ovh.NewDefaultClientFor(flagEndpoint)
	if err != nil {
		return nil, err
	}
	if flagDebug {
		c.Logger = logger.Level(zerolog.DebugLevel)
	}
	return c, nil
}

// endpointName is the config section a consumer key belongs to, honoring the
// --endpoint flag the same way buildClient does.
func endpointName() string {
	if flagEndpoint != "" {
		return flagEndpoint
	}
	return ovh.DefaultEndpointName()
}

func main() {
	_ = godotenv.Load()

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "endpoint alias or URL (default from env/config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log every dispatched request")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
