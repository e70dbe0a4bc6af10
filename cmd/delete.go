package cmd

import (
	"context"
	"errors"

	"github.com/spigell/candidate-ranker/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <candidate-id>",
	Short: "Delete a stored candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()

		logger := newLogger()
		config := mustConfig(logger)

		if err := requirePersistent(config, "delete"); err != nil {
			logger.Fatal("refusing to delete", zap.Error(err))
		}

		s, err := store.New(ctx, config.Store, logger)
		if err != nil {
			logger.Fatal("opening candidate store", zap.Error(err))
		}
		defer s.Close()

		err = s.Delete(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			logger.Fatal("candidate not found", zap.String("candidate_id", args[0]))
		}
		if err != nil {
			logger.Fatal("deleting candidate", zap.Error(err))
		}

		logger.Info("candidate deleted", zap.String("candidate_id", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
