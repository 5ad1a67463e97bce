package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlefebvre/repopulse/internal/domain"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage stored settings and API keys",
	}

	cmd.AddCommand(
		newSettingsListCmd(app),
		newSettingsSetCmd(app),
		newSettingsUnsetCmd(app),
	)

	return cmd
}

func newSettingsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List settings (secret values are masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Settings.List(context.Background())
			if err != nil {
				return err
			}

			if len(settings) == 0 {
				fmt.Println("No settings stored.")
				return nil
			}

			fmt.Printf("%-32s %s\n", "KEY", "VALUE")
			for _, s := range settings {
				masked := s.Masked()
				fmt.Printf("%-32s %s\n", masked.Key, masked.Value)
			}
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var secret bool

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if value == domain.MaskedValue {
				return fmt.Errorf("refusing to store the mask placeholder as a value")
			}

			s := &domain.Setting{
				Key:       key,
				Value:     value,
				Encrypted: secret,
				UpdatedAt: time.Now().UTC(),
			}
			if err := app.Settings.Upsert(context.Background(), s); err != nil {
				return err
			}

			fmt.Printf("Stored %s\n", key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&secret, "secret", false, "Mask the value when listing (use for API keys)")

	return cmd
}

func newSettingsUnsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Delete a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Settings.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
