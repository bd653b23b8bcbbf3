package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ecosnap/ecosnap/internal/cli"
	"github.com/ecosnap/ecosnap/internal/engine"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <image-file>",
		Short: "Classify a waste item from an image file",
		Long: `Classify reads an image from disk, sends it to the configured vision
model, and prints the waste category with disposal guidance.

Use --save to also store the result in history.`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().Bool("save", false, "Save the result to history")
	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := eng.SelectImageFile(raw); err != nil {
		return err
	}

	if err := classifyWithSpinner(ctx, eng); err != nil {
		return err
	}

	if save {
		if err := eng.Save(ctx); err != nil {
			return err
		}
	}

	return printResult(eng.Session(), asJSON, save)
}

// classifyWithSpinner runs the classification while an indeterminate
// spinner animates on stderr.
func classifyWithSpinner(ctx context.Context, eng *engine.Engine) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]Classifying...[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan error, 1)
	go func() {
		done <- eng.Classify(ctx)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		case <-ctx.Done():
			_ = bar.Finish()
			return ctx.Err()
		}
	}
}

// printResult renders the session result to stdout.
func printResult(sess engine.Session, asJSON, saved bool) error {
	rec := sess.Result
	if rec == nil {
		return fmt.Errorf("no classification result")
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	var b strings.Builder
	if rec.Confidence != nil {
		b.WriteString(fmt.Sprintf("Category:   %s (%.0f%% confident)\n", rec.Category, *rec.Confidence*100))
	} else {
		b.WriteString(fmt.Sprintf("Category:   %s\n", rec.Category))
	}
	b.WriteString(fmt.Sprintf("Reasoning:  %s\n", rec.Reasoning))
	b.WriteString("\nDisposal guidance:\n")
	for _, s := range rec.Suggestions {
		b.WriteString("  " + cli.RecycleIcon + " " + s + "\n")
	}
	if rec.Location != nil {
		b.WriteString(fmt.Sprintf("\n%s Location: %.4f, %.4f\n", cli.PinIcon, rec.Location.Lat, rec.Location.Lon))
	}

	fmt.Println(cli.RenderBox(cli.LeafIcon+" Classification", strings.TrimRight(b.String(), "\n")))

	if saved {
		fmt.Println(cli.FormatSuccess("Saved to history with id " + rec.ID))
	}
	return nil
}
