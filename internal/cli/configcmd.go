package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dustin/partsrec/internal/settings"
)

func configCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Read or update the configuration file",
	}
	c.AddCommand(configGetCmd(opts), configSetCmd(opts))
	return c
}

func configGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print a value by dotted key, or the whole document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.layout()
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			}

			v, err := opts.store(l).Get(key)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Text())
			return nil
		},
	}
}

func configSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value by dotted key and save the file",
		Long:  "Set a value by dotted key and save the file. The value is parsed as JSON when possible, otherwise stored as a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.layout()
			if err != nil {
				return err
			}

			appLogger, err := opts.logger(l)
			if err != nil {
				return err
			}

			store := opts.store(l)
			if err := store.Set(args[0], settings.ParseValue(args[1])); err != nil {
				return explain(err)
			}
			if err := store.Save(); err != nil {
				appLogger.Error("Failed to save configuration: " + err.Error())
				return err
			}

			v, err := store.Get(args[0])
			if err != nil {
				return err
			}
			appLogger.Info(fmt.Sprintf("Configuration updated: %s = %s", args[0], v.Text()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v.Text())
			return nil
		},
	}
}
