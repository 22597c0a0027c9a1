package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/categorize"
	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/session"
	"github.com/cleared-dev/splitbook/internal/ui"
)

func newCategorizeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Review and assign spending categories",
	}
	cmd.AddCommand(newCategorizeSuggestCommand(a))
	cmd.AddCommand(newCategorizePatternsCommand(a))
	cmd.AddCommand(newCategorizeAddCommand(a))
	cmd.AddCommand(newCategorizeStatusCommand(a))
	cmd.AddCommand(newCategorizeCategoriesCommand(a))
	return cmd
}

func newCategorizeSuggestCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List uncategorized expense titles by total amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.runPipeline(pipelineOptions{until: session.Categorize})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			items := categorize.SuggestTargets(s.Transactions)
			if len(items) == 0 {
				fmt.Fprintln(out, ui.FormatSuccess("every expense is categorized"))
				return nil
			}
			fmt.Fprintln(out, ui.Suggestions(items, limit))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "show at most this many titles (0 for all)")
	return cmd
}

func newCategorizePatternsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List keywords shared by several uncategorized titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.runPipeline(pipelineOptions{until: session.Categorize})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			patterns := categorize.ExtractTitlePatterns(s.Transactions, a.cfg.Patterns.Limit)
			if len(patterns) == 0 {
				fmt.Fprintln(out, ui.FormatWarning("no shared keywords"))
				return nil
			}
			fmt.Fprintln(out, ui.Patterns(patterns))
			return nil
		},
	}
}

func newCategorizeAddCommand(a *app) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "add <pattern> <category>",
		Short: "Add a category rule to the mapping document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := model.CategoryMapping{
				Pattern:   strings.TrimSpace(args[0]),
				Category:  strings.TrimSpace(args[1]),
				MatchType: model.MatchType(strings.ToLower(match)),
			}
			if !m.MatchType.Valid() {
				return fmt.Errorf("--match must be %s or %s, got %q", model.MatchExact, model.MatchContains, match)
			}

			s, err := a.runPipeline(pipelineOptions{until: session.Categorize, extraMappings: []model.CategoryMapping{m}})
			if err != nil {
				return err
			}
			if _, err := a.updateDocument(func(doc *mapping.Document) {
				addRule(doc, m)
				if len(doc.Contributors) == 0 {
					doc.Contributors = s.Selected
				}
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			last := s.Log[len(s.Log)-1]
			fmt.Fprintln(out, ui.FormatSuccess(fmt.Sprintf("%s %q -> %s matched %d expenses", m.MatchType, m.Pattern, m.Category, last.Count)))
			fmt.Fprintln(out, ui.Progress(categorize.ComputeProgress(s.Transactions)))
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", string(model.MatchContains), "match type (exact, contains)")
	return cmd
}

func newCategorizeStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show categorization progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.runPipeline(pipelineOptions{until: session.Categorize})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Progress(categorize.ComputeProgress(s.Transactions)))
			return nil
		},
	}
}

func newCategorizeCategoriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories [filter]",
		Short: "List known category names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.runPipeline(pipelineOptions{until: session.Categorize})
			if err != nil {
				return err
			}
			known := categorize.KnownCategories(s.Transactions, s.Mappings, a.cfg.Categories.Defaults)
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			for _, c := range categorize.Autocomplete(input, known) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
