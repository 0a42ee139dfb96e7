/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/suderio/rpdice/internal/logging"
	"github.com/suderio/rpdice/internal/macros"
	"github.com/suderio/rpdice/internal/session"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	configErr error
)

// errRejected is returned once a rejected line has already been reported to the user.
var errRejected = errors.New("input rejected")

var rootCmd = &cobra.Command{
	Use:   "rpdice",
	Short: "Interactive dice-notation roller",
	Long: `rpdice reads tabletop dice notation, one roll per line, and prints every die
alongside the final result.

	> 3d6+2
	[4 2 5] + 2 = 13
	> 4d6kh3
	[6 5 4 (1)] = 15
	> d20+5ra

Type q to quit and s<seed> to reseed the generator.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runREPL,
}

// Execute runs the root command and reports errors that were not already printed.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errRejected) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rpdice.yaml)")
	flags.Uint64("seed", 0, "seed for the random generator (0 seeds from the clock)")
	flags.Uint64("max-dice", 10000, "largest number of dice a single command may draw (0 disables the limit)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.StringSlice("macros", nil, "YAML macro files, later files override earlier ones")
	flags.String("prompt", ">", "prompt printed before each line")
	flags.Bool("banner", true, "print the usage banner on start")
}

// configKeys maps viper keys to the persistent flags that override them.
var configKeys = map[string]string{
	"seed":      "seed",
	"max_dice":  "max-dice",
	"log_level": "log-level",
	"macros":    "macros",
	"prompt":    "prompt",
	"banner":    "banner",
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configErr = nil
	for key, flag := range configKeys {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rpdice")
	}

	viper.SetEnvPrefix("RPDICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config: %w", err)
		}
	}
}

// newSession builds the session and logger from the merged flag/env/file configuration.
func newSession(logOut io.Writer) (*session.Session, *zap.Logger, error) {
	if configErr != nil {
		return nil, nil, configErr
	}

	log, err := logging.New(viper.GetString("log_level"), logOut)
	if err != nil {
		return nil, nil, err
	}
	if path := viper.ConfigFileUsed(); path != "" {
		log.Debug("using config file", zap.String("path", path))
	}

	book, err := macros.Load(viper.GetStringSlice("macros")...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load macros: %w", err)
	}

	app, err := session.New(session.Options{
		Seed:    viper.GetUint64("seed"),
		MaxDice: viper.GetUint64("max_dice"),
		Macros:  book,
		Logger:  log,
		Prompt:  viper.GetString("prompt"),
		Banner:  viper.GetBool("banner"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap session: %w", err)
	}
	return app, log, nil
}
