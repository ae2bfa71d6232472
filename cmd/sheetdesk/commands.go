package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/sheetdesk/internal/config"
	"github.com/jask/sheetdesk/internal/database"
	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/secrets"
	"github.com/jask/sheetdesk/internal/sheets"
)

func tableArg(name string) (string, error) {
	table := schema.Canonical(name)
	if !schema.Known(table) {
		return "", fmt.Errorf("unknown table %q (known: %s)", name, strings.Join(schema.Tables(), ", "))
	}
	return table, nil
}

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create every sheet with its header row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := sheets.EnsureSchema(cmd.Context(), e.store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sheets ready on the %s backend\n", len(schema.Tables()), e.cfg.Sheets.Backend)
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export TABLE",
		Short: "Write a sheet as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args[0])
			if err != nil {
				return err
			}
			n, err := e.catalog().ExportCSV(cmd.Context(), table, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d rows from %s\n", n, table)
			return nil
		},
	}
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import TABLE FILE",
		Short: "Append the rows of a CSV file to a sheet",
		Long: `Append the rows of a CSV file to a sheet.

The first line names the columns. Rows whose id already exists are skipped
and rows without an id get a new one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := e.catalog().ImportCSV(cmd.Context(), table, bufio.NewReader(f))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d, skipped %d\n", res.Imported, res.Skipped)
			for _, rowErr := range res.Errors {
				fmt.Fprintf(out, "  %v\n", rowErr)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d rows rejected", len(res.Errors))
			}
			return nil
		},
	}
}

func newResetCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every row of the local database, keeping headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.Sheets.Backend != config.BackendLocal {
				return fmt.Errorf("reset only applies to the local backend, not %q", e.cfg.Sheets.Backend)
			}
			if !yes {
				return errors.New("reset deletes every row; pass --yes to confirm")
			}
			if err := database.Reset(cmd.Context(), e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every row")
	return cmd
}

func newKeyCmd() *cobra.Command {
	key := &cobra.Command{
		Use:         "key",
		Short:       "Manage the stored Sheets API key",
		Annotations: map[string]string{skipStore: "true"},
	}
	key.AddCommand(
		&cobra.Command{
			Use:   "set KEY",
			Short: "Store the Sheets API key encrypted on disk",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := secrets.StoreKey(secrets.SheetsKey, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "key stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored Sheets API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := secrets.DeleteKey(secrets.SheetsKey); err != nil {
					if errors.Is(err, secrets.ErrNotFound) {
						fmt.Fprintln(cmd.OutOrStdout(), "no key stored")
						return nil
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "key deleted")
				return nil
			},
		},
	)
	return key
}

func newConfigCmd(e *env) *cobra.Command {
	cfg := &cobra.Command{
		Use:         "config",
		Short:       "Inspect or write the configuration file",
		Annotations: map[string]string{skipStore: "true"},
	}
	cfg.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), config.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Write the effective settings, flags included, to the configuration file",
			Long: `Write the effective settings, flags included, to the configuration file.

The API key is never written; keep it in the environment or use "key set".`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := config.Save(e.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", config.Path())
				return nil
			},
		},
	)
	return cfg
}
