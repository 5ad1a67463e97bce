package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// resolveProject accepts a project ID, ID prefix, name, or owner/repo slug.
func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	if input == "" {
		return nil, fmt.Errorf("project is required")
	}

	projects, err := app.Projects.List(ctx, false)
	if err != nil {
		return nil, err
	}

	// 1. Exact slug match (case-insensitive)
	for _, p := range projects {
		if strings.EqualFold(p.Slug(), input) {
			return p, nil
		}
	}

	// 2. Exact name or UUID match
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) || p.ID == input {
			return p, nil
		}
	}

	// 3. UUID prefix match
	var matches []*domain.Project
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage monitored projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectPauseCmd(app),
		newProjectResumeCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "add URL",
		Short: "Start monitoring a GitHub repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			owner, repo, err := domain.ParseGitHubURL(url)
			if err != nil {
				return err
			}
			if name == "" {
				name = repo
			}

			ctx := context.Background()
			if existing, err := app.Projects.GetBySlug(ctx, owner, repo); err == nil && existing != nil {
				return fmt.Errorf("already monitoring %s/%s", owner, repo)
			}

			now := time.Now().UTC()
			p := &domain.Project{
				ID:          uuid.New().String(),
				Name:        name,
				Owner:       owner,
				Repo:        repo,
				URL:         url,
				Description: description,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := p.Validate(); err != nil {
				return err
			}
			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Monitoring %s (%s)\n", p.Name, p.Slug())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the repository name)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List monitored projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projects, err := app.Projects.List(ctx, activeOnly)
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			fmt.Printf("%-24s %-32s %-8s %s\n", "NAME", "REPOSITORY", "ACTIVE", "LAST SYNC")
			for _, p := range projects {
				lastSync := "never"
				if p.LastSyncAt != nil {
					lastSync = p.LastSyncAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("%-24s %-32s %-8t %s\n", p.Name, p.Slug(), p.IsActive, lastSync)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only show active projects")

	return cmd
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PROJECT",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			count, err := app.Activity.CountByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			reports, err := app.Reports.ListByProject(ctx, p.ID, 5)
			if err != nil {
				return err
			}

			fmt.Printf("Name:        %s\n", p.Name)
			fmt.Printf("Repository:  %s\n", p.Slug())
			fmt.Printf("URL:         %s\n", p.URL)
			if p.Description != "" {
				fmt.Printf("Description: %s\n", p.Description)
			}
			fmt.Printf("Active:      %t\n", p.IsActive)
			if p.LastSyncAt != nil {
				fmt.Printf("Last sync:   %s\n", p.LastSyncAt.Format(time.RFC3339))
			}
			fmt.Printf("Items:       %d\n", count)

			if len(reports) > 0 {
				fmt.Println("\nRecent reports:")
				for _, r := range reports {
					fmt.Printf("  %s  %s\n", r.ID[:8], r.Title)
				}
			}
			return nil
		},
	}
}

func newProjectPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause PROJECT",
		Short: "Stop syncing a project without deleting its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(app, args[0], false)
		},
	}
}

func newProjectResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume PROJECT",
		Short: "Resume syncing a paused project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(app, args[0], true)
		},
	}
}

func setActive(app *App, input string, active bool) error {
	ctx := context.Background()
	p, err := resolveProject(ctx, app, input)
	if err != nil {
		return err
	}
	p.IsActive = active
	p.UpdatedAt = time.Now().UTC()
	if err := app.Projects.Update(ctx, p); err != nil {
		return err
	}
	state := "paused"
	if active {
		state = "active"
	}
	fmt.Printf("Project %s is now %s\n", p.Name, state)
	return nil
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete a project and all its activity and reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("refusing to delete %s without --force", p.Name)
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation requirement")

	return cmd
}
