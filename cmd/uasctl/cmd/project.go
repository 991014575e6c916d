package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"uas-projects-service/pkg/utils"
	"uas-projects-service/templates"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
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

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-24s  %-20s  %-7s  %-5s  %s\n",
				"ID", "NAME", "CLIENT", "FLIGHTS", "CREW", "FLIGHT TIME")
			fmt.Fprintln(out, strings.Repeat("-", 108))
			for _, p := range projects {
				totals := utils.ProjectTotals(p)
				fmt.Fprintf(out, "%-36s  %-24s  %-20s  %-7d  %-5d  %s\n",
					truncate(p.ID, 36),
					truncate(p.Name, 24),
					truncate(p.Client, 20),
					len(p.Flights),
					totals.CrewCount,
					utils.MinutesToHHMM(totals.TotalFlightMinutes),
				)
			}
			fmt.Fprintf(out, "\nTotal: %d project(s)\n", len(projects))
			return nil
		},
	}
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := openService(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeStore()

			p, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("show project %s: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), templates.ProjectSummary(p))
			return nil
		},
	}
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project with its flights and crew",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := openService(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete project %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %s deleted\n", args[0])
			return nil
		},
	}
}

// truncate shortens s to n characters, counting runes not bytes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-2]) + ".."
}
