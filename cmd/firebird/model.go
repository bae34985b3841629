package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacesedan/firebird/config"
	"github.com/spacesedan/firebird/internal/sentiment"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the local sentiment model",
}

var modelPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download MODEL_NAME (MODEL_ONNX_FILE) into MODEL_CACHE_DIR unless it is already cached",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		path, err := sentiment.EnsureModel(cfg.ModelName, cfg.ModelOnnxFile, cfg.ModelCacheDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	modelCmd.AddCommand(modelPullCmd)
}
