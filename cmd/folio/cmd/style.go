package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/style"
)

// StyleCmd prints the resolved style of a variant, optionally with an override applied.
func StyleCmd() *cobra.Command {
	var overrideFile string

	cmd := &cobra.Command{
		Use:   "style <variant>",
		Short: "Show the effective style and classes of a display variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := model.ParseDisplayType(args[0])
			if err != nil {
				return err
			}

			var override *model.Style
			if overrideFile != "" {
				override, err = readStyle(overrideFile)
				if err != nil {
					return err
				}
				err = style.Validate(override)
				if err != nil {
					return err
				}
			}

			eff := style.Resolve(variant, override)
			data, err := json.Marshal(map[string]any{
				"variant": variant.String(),
				"style":   eff,
				"classes": style.ClassesFor(eff),
			})
			if err != nil {
				return err
			}
			out, err := yaml.JSONToYAML(data)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&overrideFile, "override", "", "YAML or JSON style override file")
	return cmd
}

func DescriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "description <path>",
		Short: "Print a stored Markdown description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := newManager().ReadDescription(cmd.Context(), args[0])
			if text == "" {
				return fmt.Errorf("no description at %s on %s", args[0], viper.GetString(keyServer))
			}
			fmt.Print(text)
			return nil
		},
	}
}

func HashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
