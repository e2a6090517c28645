package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/professional-hubs/conflicts/internal/auth"
	"github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/model"
	"github.com/professional-hubs/conflicts/internal/storage"
)

func seedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo firms into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(ctx, cfg.DatabaseURL, true, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.CountFirms(ctx)
			if err != nil {
				return err
			}
			if n > 0 && !force {
				logger.Info("seed: database already has firms, skipping (use --force to add the demo firms anyway)", "firms", n)
				return nil
			}
			for _, rec := range storage.DemoFirms(time.Now()) {
				firm, err := db.ImportFirm(ctx, rec)
				if err != nil {
					return fmt.Errorf("seed %q: %w", rec.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "firm %d: %s\n", firm.ID, firm.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Import the demo firms even if firms already exist")
	return cmd
}

func firmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "firms",
		Short: "List the firms in the database with their IDs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(ctx, cfg.DatabaseURL, false, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			firms, err := db.ListFirms(ctx)
			if err != nil {
				return err
			}
			for _, f := range firms {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", f.ID, f.Name)
			}
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import firms with their clients, matters and related parties from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			records, err := readImportFile(f)
			if err != nil {
				return err
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(ctx, cfg.DatabaseURL, cfg.RunMigrations, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, rec := range records {
				firm, err := db.ImportFirm(ctx, rec)
				if err != nil {
					return fmt.Errorf("import %q: %w", rec.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "firm %d: %s\n", firm.ID, firm.Name)
			}
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		firmID  int64
		subject string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a firm using the configured signing key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if cfg.JWTPrivateKeyPath == "" {
				return fmt.Errorf("token: CONFLICTS_JWT_PRIVATE_KEY is not set; a token signed with an ephemeral key is useless")
			}
			jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTExpiration)
			if err != nil {
				return fmt.Errorf("auth: %w", err)
			}
			tok, exp, err := jwtMgr.IssueToken(firmID, subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().Int64Var(&firmID, "firm", 0, "Firm ID the token acts for (required)")
	cmd.Flags().StringVar(&subject, "subject", "operator", "Subject recorded in the token")
	_ = cmd.MarkFlagRequired("firm")
	return cmd
}

func checkCmd() *cobra.Command {
	var (
		firmID int64
		output string
		req    model.CheckConflictsRequest
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single conflict check against the database and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := model.ValidateCheckRequest(req); err != nil {
				return err
			}
			if err := checkFormat(output); err != nil {
				return err
			}
			db, err := openDB(ctx, cfg.DatabaseURL, false, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			checker := conflicts.NewChecker(db, conflicts.Thresholds{
				Floor:      cfg.FuzzyThreshold,
				HighCutoff: cfg.HighConfidenceThreshold,
			}, logger)
			report, err := checker.Check(ctx, firmID, req.Query())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, output)
		},
	}
	cmd.Flags().Int64Var(&firmID, "firm", 0, "Firm ID to search (required)")
	cmd.Flags().StringVar(&req.GivenName, "given-name", "", "Given name of the person")
	cmd.Flags().StringVar(&req.FirstSurname, "first-surname", "", "First surname of the person")
	cmd.Flags().StringVar(&req.SecondSurname, "second-surname", "", "Second surname of the person")
	cmd.Flags().StringVar(&req.CompanyName, "company", "", "Company name")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json, yaml or text")
	_ = cmd.MarkFlagRequired("firm")
	return cmd
}
