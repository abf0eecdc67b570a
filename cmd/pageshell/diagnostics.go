// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/render"
)

func newDiagnosticsCommand(app *App) *cobra.Command {
	var (
		asJSON  bool
		explain bool
	)

	cmd := &cobra.Command{
		Use:     "diagnostics",
		Aliases: []string{"diag"},
		Short:   "Report problems found while discovering pages",
		Long: `Report problems found while discovering pages.

Exits with status 1 when at least one error-severity diagnostic exists.
--explain adds guidance for each kind of problem found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			snap, err := svc.RunDiscovery(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				diags := snap.Diagnostics
				if diags == nil {
					diags = []discovery.Diagnostic{}
				}
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(diags); err != nil {
					return err
				}
			} else if len(snap.Diagnostics) == 0 {
				_, _ = fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" no problems found")
			} else {
				_, _ = fmt.Fprintln(app.stdout, render.Diagnostics(snap.Diagnostics, app.palette()))
				if explain {
					style := svc.Config().UI.Theme.MarkdownStyle()
					for _, id := range explainIssues(snap.Diagnostics) {
						_, _ = fmt.Fprint(app.stdout, issueGuidance(id, style))
					}
				}
			}

			if snap.HasErrors() {
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print diagnostics as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "show how to fix each kind of problem")
	return cmd
}

var diagnosticIssues = map[discovery.DiagnosticCode]issue.Id{
	discovery.CodeSourceScanFailed: issue.PagesDirUnreadableId,
	discovery.CodeSourceLoadFailed: issue.PageFileInvalidId,
	discovery.CodeNoNavigation:     issue.NoPagesFoundId,
}

// explainIssues lists the catalog entries behind diags, once each, in the
// order their codes first appear.
func explainIssues(diags []discovery.Diagnostic) []issue.Id {
	var ids []issue.Id
	seen := map[issue.Id]bool{}
	for _, d := range diags {
		id, ok := diagnosticIssues[d.Code]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
