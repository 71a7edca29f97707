// Command jobctl runs administrative tasks against the job-assist backend.
// Run "jobctl help" for the list.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"jobassist-backend/internal/bootstrap"
	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/shared/auth"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/storage/db"
	"jobassist-backend/internal/skills"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobctl",
		Short:         "Administer the job-assist backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newMigrateCmd(),
		newImportJobsCmd(),
		newAutoApplyCmd(),
		newParseResumeCmd(),
		newTokenCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: db.MigrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.ProfileMigrate))
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer sqlDB.Close()
			if err := db.Migrate(ctx, sqlDB, command); err != nil {
				return fmt.Errorf("migrate %s: %w", command, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", command)
			return nil
		},
	}
}

func newImportJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-jobs <file.json>",
		Short: "Import job listings from a JSON array",
		Long: `Import job listings from a JSON file holding an array of jobs. Listings whose
title and company already exist are skipped.

Example:
  jobctl import-jobs jobs.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readJobs(args[0])
			if err != nil {
				return err
			}
			app, err := bootstrap.BuildContext(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.JobsService.Import(cmd.Context(), batch)
			if err != nil {
				return err
			}
			return writeJSON(cmd, res)
		},
	}
}

func newAutoApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto-apply <user-id>",
		Short: "Run auto-apply once for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.BuildContext(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer app.Close()

			// Follow-ups must finish before the process exits.
			app.AutoApply.Dispatch = func(fn func()) { fn() }
			res, err := app.AutoApply.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, res)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims := auth.Claims{Email: email, Name: name}
			claims.Subject = args[0]
			if ttl > 0 {
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
			}
			token, err := auth.SignJWT(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default 24h)")
	return cmd
}

type parsedResume struct {
	File            string         `json:"file"`
	MimeType        string         `json:"mimeType"`
	Skills          []string       `json:"skills"`
	ExperienceYears int            `json:"experienceYears"`
	Contact         skills.Contact `json:"contact"`
	TextLength      int            `json:"textLength"`
}

func newParseResumeCmd() *cobra.Command {
	var vocabFile string
	cmd := &cobra.Command{
		Use:   "parse-resume <file>",
		Short: "Extract skills and contact details from a resume file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab := skills.DefaultVocabulary()
			if vocabFile != "" {
				v, err := skills.LoadVocabularyFile(vocabFile)
				if err != nil {
					return err
				}
				vocab = v
			}
			out, err := parseResume(cmd.Context(), args[0], skills.NewParser(vocab))
			if err != nil {
				return err
			}
			return writeJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&vocabFile, "vocabulary", "", "skill vocabulary file (.json or one skill per line)")
	return cmd
}

func parseResume(ctx context.Context, path string, parser *skills.Parser) (parsedResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parsedResume{}, err
	}
	name := filepath.Base(path)
	mime := extract.Normalize("", name, data)
	text, err := extract.Text(ctx, data, mime, name)
	if err != nil {
		return parsedResume{}, err
	}
	profile := parser.Parse(text)
	return parsedResume{
		File:            name,
		MimeType:        mime,
		Skills:          append([]string{}, profile.Skills...),
		ExperienceYears: profile.ExperienceYears,
		Contact:         profile.Contact,
		TextLength:      len(text),
	}, nil
}

func readJobs(path string) ([]jobs.Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch []jobs.Job
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return batch, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
