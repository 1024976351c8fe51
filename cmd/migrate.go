package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/MePrince47/JoeZik/config"
	"github.com/MePrince47/JoeZik/core/vote"
	"github.com/MePrince47/JoeZik/db"
	"github.com/MePrince47/JoeZik/repository"
)

var migrateReconcile bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Create the JoeZik tables if they do not exist and seed the default playlist. With --reconcile, also rewrite every track's vote score from the vote ledger.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(cfg); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		fmt.Println("Schema is up to date.")

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to migrate chat tables: %v", err)
		}
		defer db.CloseGormDB()

		if migrateReconcile {
			userRepo := repository.NewMySQLUserRepository(db.DB)
			trackRepo := repository.NewMySQLTrackRepository(db.DB)
			voteRepo := repository.NewMySQLVoteRepository(db.DB)
			svc := vote.NewService(db.DB, trackRepo, voteRepo, userRepo)

			updated, err := svc.ReconcileScores(context.Background())
			if err != nil {
				log.Fatalf("Failed to reconcile vote scores: %v", err)
			}
			fmt.Printf("Reconciled vote scores on %d tracks.\n", updated)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVarP(&migrateReconcile, "reconcile", "r", false, "recompute vote scores from the vote ledger")
}
