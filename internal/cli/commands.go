package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yigit/schoolsite/internal/app/models"
)

// NewMigrateCommand applies pending schema migrations
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(opts, func(b Backend) error {
				applied, err := b.Migrate(cmd.Context())
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				return formatter(opts, cmd).Success(
					fmt.Sprintf("%d migration(s) applied", applied),
					map[string]int{"applied": applied},
				)
			})
		},
	}
}

// NewSeedCommand creates the default classes, year, admin and profile
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create missing default data",
		Long:  "Creates Class 1 to Class 12, a current academic year, the admin user and an unpublished school profile when they are missing.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(opts, func(b Backend) error {
				if err := b.Seed(cmd.Context()); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				return formatter(opts, cmd).Success("default data is in place", nil)
			})
		},
	}
}

// NewYearCommand groups academic year commands
func NewYearCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Manage academic years",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-current <id>",
		Short: "Make an academic year the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid academic year id %q", args[0])
			}
			return withBackend(opts, func(b Backend) error {
				year, err := b.SetCurrentYear(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("set current year: %w", err)
				}
				return formatter(opts, cmd).Success(
					fmt.Sprintf("academic year %s (id %d) is now current", year.Name, year.ID),
					year,
				)
			})
		},
	})
	return cmd
}

// NewUserCommand groups user id commands
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect user id bands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "next-id <role>",
		Short:     "Print the next free user id of a role without allocating it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.RoleAdmin), string(models.RoleTeacher), string(models.RoleStudent)},
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.RoleType(args[0])
			band, ok := models.BandFor(role)
			if !ok {
				return fmt.Errorf("unknown role %q: must be admin, teacher or student", args[0])
			}
			return withBackend(opts, func(b Backend) error {
				id, err := b.PeekNextUserID(cmd.Context(), role)
				if err != nil {
					return fmt.Errorf("next id: %w", err)
				}
				f := formatter(opts, cmd)
				f.VerboseLog("band for %s is %d-%d", role, band.Min, band.Max)
				return f.Success(strconv.FormatInt(id, 10), map[string]interface{}{
					"role":   role,
					"nextId": id,
				})
			})
		},
	})
	return cmd
}
