package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/templui/folio/internal/client"
	"github.com/templui/folio/internal/logger"
)

const (
	keyServer  = "server"
	keyToken   = "token"
	keyTimeout = "timeout"
	keyVerbose = "verbose"
)

var configFile string

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Manage the artworks of a folio gallery",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := initConfig()
			if err != nil {
				return err
			}
			level := "info"
			if viper.GetBool(keyVerbose) {
				level = "debug"
			}
			logger.Init(logger.Options{Dev: true, Level: level, Output: os.Stderr})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is $HOME/.folio.yaml)")
	flags.String(keyServer, "http://localhost:8090", "gallery server URL")
	flags.String(keyToken, "", "admin token (see folio login)")
	flags.Duration(keyTimeout, client.DefaultTimeout, "HTTP timeout")
	flags.BoolP(keyVerbose, "v", false, "debug logging")

	for _, key := range []string{keyServer, keyToken, keyTimeout, keyVerbose} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
		}
	}

	return root
}

// initConfig reads the config file and FOLIO_* environment variables.
func initConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".folio")
	}

	viper.SetEnvPrefix("folio")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// configPath is where login stores the token.
func configPath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio.yaml"), nil
}

func newManager() *client.Manager {
	m := client.NewManager(viper.GetString(keyServer), &http.Client{Timeout: viper.GetDuration(keyTimeout)})
	m.SetToken(viper.GetString(keyToken))
	return m
}

// requireToken fails early instead of letting every write come back 401.
func requireToken() error {
	if viper.GetString(keyToken) == "" {
		slog.Debug("no admin token configured")
		return fmt.Errorf("not logged in: run folio login or set FOLIO_TOKEN")
	}
	return nil
}
