package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
	"github.com/BuzzLyutic/serverless-todo/internal/ui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive to-do list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
}

func (a *app) runTUI(cmd *cobra.Command) error {
	a.logger.Info("starting tui", zap.String("store", a.describe()))
	return ui.Run(cmd.Context(), a.service, ui.WithLogger(a.logger))
}

func newAddCmd(a *app) *cobra.Command {
	var description, dueTime, dueDate string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("due-date") {
				dueDate = time.Now().Format("2006-01-02")
			}
			t, err := a.service.Add(cmd.Context(), description, dueTime, dueDate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", t.ID, t.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description (required)")
	cmd.Flags().StringVar(&dueTime, "due-time", ui.DefaultDueTime, "Due time, free text")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date, free text (default today)")
	if err := cmd.MarkFlagRequired("description"); err != nil {
		panic(fmt.Sprintf("Failed to mark description flag as required: %v", err))
	}
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.service.List(cmd.Context())
			if err != nil && model.KindOf(err) != model.KindDecode {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks yet.")
			}
			for i, t := range tasks {
				fmt.Fprintln(out, ui.TaskLine(i+1, t))
				fmt.Fprintf(out, "  Status: %s\n", t.Status())
				fmt.Fprintf(out, "  ID: %s\n", t.ID)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}
}

func newCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.Complete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", args[0])
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(a.cfg)
		},
	}
}
