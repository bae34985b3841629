package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacesedan/firebird/config"
	"github.com/spacesedan/firebird/internal/sentiment"
)

var sampleTexts = []string{
	"me encanta la tarta de queso de este hotel",
	"ldnsfklsdnf",
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify texts with the configured model",
	Long:  "Classify the given texts in one batch and print each label. Without arguments two sample sentences are used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		var cleanup closers
		defer cleanup.Close()

		classifier, err := openClassifier(cfg, &cleanup)
		if err != nil {
			return err
		}

		texts := args
		if len(texts) == 0 {
			texts = sampleTexts
		}

		results, err := classifier.Classify(cmd.Context(), texts)
		if err != nil {
			return err
		}
		if len(results) != len(texts) {
			return fmt.Errorf("expected %d results, got %d", len(texts), len(results))
		}

		out := cmd.OutOrStdout()
		for i, result := range results {
			fmt.Fprintf(out, "%s\t%.4f\t%s\n", result.Label, result.Score, texts[i])
		}

		tally, err := sentiment.Tally(results, sentiment.DefaultMidpoint)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d positive, %d negative, %d neutral.\n", tally.Positive, tally.Negative, tally.Neutral)
		return nil
	},
}
