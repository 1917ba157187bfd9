package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func LoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as admin and store the token in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = viper.GetString("password")
			}
			if password == "" {
				fmt.Fprint(os.Stderr, "Admin password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			return runLogin(cmd, password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "admin password (default $FOLIO_PASSWORD or prompt)")
	return cmd
}

func runLogin(cmd *cobra.Command, password string) error {
	m := newManager()
	if !m.Login(cmd.Context(), password) {
		return fmt.Errorf("login failed")
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	viper.Set(keyToken, m.Token())
	err = viper.WriteConfigAs(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("Logged in to %s, token saved to %s\n", viper.GetString(keyServer), path)
	return nil
}
