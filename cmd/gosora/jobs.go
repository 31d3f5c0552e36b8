package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rashedtalukder/gosora/types"
)

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent generation jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client, err := newClient(logger)
			if err != nil {
				return err
			}
			defer client.Close()

			list, err := client.ListJobs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(list.Data) == 0 {
				fmt.Println("no jobs found")
				return nil
			}
			for _, job := range list.Data {
				printJob(job)
			}
			if list.HasMore {
				fmt.Println("... more jobs available, raise --limit to see them")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of jobs to list")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current state of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client, err := newClient(logger)
			if err != nil {
				return err
			}
			defer client.Close()

			job, err := client.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printJob(*job)
			for _, gen := range job.Generations {
				fmt.Printf("  generation %s  %dx%d  %ds\n",
					gen.ID, gen.Width, gen.Height, gen.Duration)
			}
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client, err := newClient(logger)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DeleteJob(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func printJob(job types.Job) {
	line := fmt.Sprintf("%s  %-13s  %dx%d  %ds x%d",
		job.ID, job.Status, job.Width, job.Height, job.Duration, job.Variants)
	if job.FailureReason != "" {
		line += fmt.Sprintf("  reason=%s", job.FailureReason)
	}
	if !job.FinishedTime().IsZero() {
		line += "  finished " + job.FinishedTime().Format(time.RFC3339)
	}
	fmt.Println(line)
}
