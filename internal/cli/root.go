// Package cli implements schoolctl, the operator command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
)

// Backend is what the commands need from the database
type Backend interface {
	Migrate(ctx context.Context) (int, error)
	Seed(ctx context.Context) error
	SetCurrentYear(ctx context.Context, id int64) (*dto.AcademicYearResponse, error)
	PeekNextUserID(ctx context.Context, role models.RoleType) (int64, error)
	Close()
}

// Opener connects a Backend using the resolved config path
type Opener func(configPath string) (Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
	open       Opener
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the schoolctl root command
func NewRootCommand(open Opener, defaultConfig string) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "schoolctl",
		Short: "School site administration",
		Long:  "Maintenance commands for the school website: schema migrations, default data, academic years and user id bands.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", defaultConfig, "path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewYearCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withBackend opens the backend, runs fn and closes it
func withBackend(opts *RootOptions, fn func(Backend) error) error {
	b, err := opts.open(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
