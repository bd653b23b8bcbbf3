package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecosnap/ecosnap/internal/cli"
	"github.com/ecosnap/ecosnap/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved classifications",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())
	cmd.AddCommand(historyClearCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved classifications, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			store, closeDB, err := initHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			entries := store.Entries()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Println(cli.FormatInfo("No saved classifications yet."))
				return nil
			}

			header := fmt.Sprintf("%-22s %-15s %-20s %s", "ID", "CATEGORY", "WHEN", "CONFIDENCE")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for _, rec := range entries {
				fmt.Println(cli.TableCellStyle.Render(formatHistoryRow(rec)))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print entries as JSON")
	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved classification in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := initHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			rec, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("no history entry with id %s", args[0])
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("Category:   %s\n", rec.Category))
			if rec.Confidence != nil {
				b.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", *rec.Confidence*100))
			}
			b.WriteString(fmt.Sprintf("When:       %s\n", time.UnixMilli(rec.Timestamp).Format(time.RFC1123)))
			if rec.Location != nil {
				b.WriteString(fmt.Sprintf("Location:   %.4f, %.4f\n", rec.Location.Lat, rec.Location.Lon))
			}
			b.WriteString(fmt.Sprintf("Reasoning:  %s\n", rec.Reasoning))
			b.WriteString("\nDisposal guidance:\n")
			for _, s := range rec.Suggestions {
				b.WriteString("  " + cli.RecycleIcon + " " + s + "\n")
			}

			fmt.Println(cli.RenderBox(string(rec.Category), strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one saved classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeDB, err := initHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			if _, ok := store.Get(args[0]); !ok {
				fmt.Println(cli.FormatWarning("No history entry with id " + args[0]))
				return nil
			}
			if err := store.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted " + args[0]))
			return nil
		},
	}
}

func historyClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved classifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			force, _ := cmd.Flags().GetBool("force")

			store, closeDB, err := initHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			if store.Len() == 0 {
				fmt.Println(cli.FormatInfo("History is already empty."))
				return nil
			}

			if !force {
				prompt := fmt.Sprintf("Delete all %d saved classifications? [y/N] ", store.Len())
				fmt.Print(cli.PromptStyle.Render(prompt))
				var answer string
				_, _ = fmt.Scanln(&answer)
				if !strings.EqualFold(answer, "y") {
					fmt.Println(cli.FormatInfo("Aborted."))
					return nil
				}
			}

			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("History cleared."))
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func formatHistoryRow(rec model.ClassificationRecord) string {
	when := time.UnixMilli(rec.Timestamp).Format("2006-01-02 15:04")
	confidence := "-"
	if rec.Confidence != nil {
		confidence = fmt.Sprintf("%.0f%%", *rec.Confidence*100)
	}
	return fmt.Sprintf("%-22s %-15s %-20s %s", rec.ID, rec.Category, when, confidence)
}
