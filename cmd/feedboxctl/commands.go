package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valentinpelus/feedbox/pkg/feedback"
	"github.com/valentinpelus/feedbox/pkg/types"
)

func newSubmitCmd(c *cli) *cobra.Command {
	var sub feedback.Submission

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Store one feedback entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := feedback.NewRecord(sub, c.now())
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(ctx context.Context, store *feedback.Store) error {
				if err := store.Append(ctx, record); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Thank you for your feedback! We appreciate your input.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sub.Name, "name", "", "submitter name")
	cmd.Flags().StringVar(&sub.Email, "email", "", "submitter email")
	cmd.Flags().StringVar(&sub.Rating, "rating", "", "rating from 1 to 5 (required)")
	cmd.Flags().StringVar(&sub.Message, "message", "", "feedback message (required)")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all feedback as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store *feedback.Store) error {
				records := store.LoadAll(ctx)
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No feedback yet.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "#\tNAME\tEMAIL\tRATING\tMESSAGE\tDATE")
				for _, row := range feedback.Rows(records) {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s (%s)\t%s\t%s\n",
						row.Index, row.Name, row.Email, row.Stars, row.RatingLabel,
						strings.ReplaceAll(row.Message, "\n", " "), row.Date)
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				printSummary(cmd, feedback.Summarize(records, c.now()))
				return nil
			})
		},
	}
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total, average rating and this month's count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store *feedback.Store) error {
				printSummary(cmd, feedback.Summarize(store.LoadAll(ctx), c.now()))
				return nil
			})
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all feedback to a CSV file",
		Long: `Write all feedback to feedback_data_<YYYY-MM-DD>.csv, or to the path
given with --output ("-" for stdout). Nothing is written when no feedback is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store *feedback.Store) error {
				filename, data, err := store.Export(ctx, c.now())
				if err != nil {
					return err
				}

				if output == "-" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if output != "" {
					filename = output
				}
				if err := os.WriteFile(filename, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", filename, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "CSV file written to %s\n", filename)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default feedback_data_<date>.csv)")
	return cmd
}

func newClearCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprint(out, "Are you sure you want to delete all feedback? This action cannot be undone. [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			return c.withStore(cmd, func(ctx context.Context, store *feedback.Store) error {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "All feedback data has been cleared.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func printSummary(cmd *cobra.Command, s types.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total Feedback: %d\n", s.Total)
	fmt.Fprintf(out, "Average Rating: %.1f\n", s.AverageRating)
	fmt.Fprintf(out, "This Month:     %d\n", s.CurrentMonthCount)
}
