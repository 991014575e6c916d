package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/usecase"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export projects or flight logs",
	}

	var jsonFile string
	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Export all projects as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := openService(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeStore()

			projects, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}
			data, err := json.MarshalIndent(projects, "", "  ")
			if err != nil {
				return fmt.Errorf("encode projects: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), jsonFile, data)
		},
	}
	jsonCmd.Flags().StringVarP(&jsonFile, "file", "f", "", "write to file instead of stdout")

	var csvFile, order string
	csvCmd := &cobra.Command{
		Use:   "csv <id>",
		Short: "Export one project's flight log as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := openService(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeStore()

			var buf bytes.Buffer
			name, err := svc.ExportFlightLog(cmd.Context(), args[0], order, &buf)
			if err != nil {
				return fmt.Errorf("export flight log: %w", err)
			}
			if csvFile == "-" {
				csvFile = ""
			} else if csvFile == "" {
				csvFile = name
			}
			return writeOutput(cmd.OutOrStdout(), csvFile, buf.Bytes())
		},
	}
	csvCmd.Flags().StringVarP(&csvFile, "file", "f", "", "output file (default <name>_flight_logs.csv, - for stdout)")
	csvCmd.Flags().StringVar(&order, "order", usecase.OrderNewest, "flight order (newest, oldest)")

	exportCmd.AddCommand(jsonCmd, csvCmd)
	return exportCmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import projects from a JSON array",
		Long: `Import projects from a JSON array such as the output of "uasctl export json".
Projects with an existing id are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var projects []*entity.Project
			if err := json.Unmarshal(data, &projects); err != nil || projects == nil {
				return fmt.Errorf("invalid format - expecting an array of projects")
			}

			svc, closeStore, err := openService(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := svc.Import(cmd.Context(), projects)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d project(s): %d created, %d updated\n",
				len(projects), res.Created, res.Updated)
			return nil
		},
	}
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
