package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leadsift/peoplescan/internal/config"
	"github.com/leadsift/peoplescan/internal/database"
	"github.com/leadsift/peoplescan/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [website]",
		Short: "Show stored scan results",
		Long: `History lists scans stored in the local database.

Without arguments it lists every scanned website. With a website it
shows that site's scan history, newest first.

Examples:
  # List all scanned websites
  peoplescan history

  # Show scan history for one website
  peoplescan history example.com

  # Show the latest stored result in full
  peoplescan history --latest example.com

  # List stored people with an email at a domain, across all scans
  peoplescan history --email-domain example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 10, "Maximum number of history entries to show")
	cmd.Flags().Bool("latest", false, "Print the most recent stored result in full")
	cmd.Flags().String("email-domain", "", "List stored people whose email is at the given domain")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Database directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no scan history available: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only usage

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	emailDomain, err := cmd.Flags().GetString("email-domain")
	if err != nil {
		return err
	}
	if emailDomain != "" {
		people, err := db.FindPeopleByEmailDomain(ctx, emailDomain)
		if err != nil {
			return err
		}
		if len(people) == 0 {
			return fmt.Errorf("no stored people with a %s email", emailDomain)
		}
		fmt.Fprintf(out, "People with a %s email:\n\n", emailDomain)
		for _, p := range people {
			title := p.Title
			if title == "" {
				title = "-"
			}
			fmt.Fprintf(out, "  %-24s %-36s %s\n", p.Name, title, p.Email)
		}
		return nil
	}

	if len(args) == 0 {
		websites, err := db.ListScannedWebsites(ctx)
		if err != nil {
			return err
		}
		if len(websites) == 0 {
			fmt.Fprintln(out, "No scans stored yet.")
			return nil
		}
		fmt.Fprintln(out, "Scanned websites:")
		for _, w := range websites {
			fmt.Fprintf(out, "  %s\n", w)
		}
		return nil
	}

	website := args[0]

	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	if latest {
		result, err := db.GetLatestScanResult(ctx, website)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("no stored scans for %s", website)
		}
		_, err = report.NewSimpleWriter(out).Write(result)
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	history, err := db.GetScanHistory(ctx, website, limit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no stored scans for %s", website)
	}

	fmt.Fprintf(out, "Scan history for %s:\n\n", website)
	for _, meta := range history {
		status := "ok"
		if len(meta.ErrorTags) > 0 {
			status = strings.Join(meta.ErrorTags, ",")
		}
		fmt.Fprintf(out, "  #%-4d %s  pages=%d people=%d decision_makers=%d status=%s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04"),
			meta.PagesScanned,
			meta.PeopleExamined,
			meta.DecisionMakers,
			status,
		)
	}
	return nil
}
