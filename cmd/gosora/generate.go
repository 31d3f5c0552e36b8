package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rashedtalukder/gosora/types"
	"github.com/rashedtalukder/gosora/validation"
)

func newGenerateCmd() *cobra.Command {
	var (
		prompt       string
		width        int
		height       int
		duration     int
		variants     int
		outputDir    string
		pollInterval time.Duration
		maxPolls     int
		keep         bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a generation job, wait for it, and download the results",
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

			ctx := cmd.Context()

			// Advisory clamping is a CLI convenience; the core validator
			// still hard-rejects anything out of range.
			if max := validation.MaxDurationFor(width, height); duration > max {
				logger.Warn("duration exceeds maximum for resolution, clamping",
					zap.Int("requested", duration), zap.Int("max", max))
				duration = max
			}
			if max := validation.MaxVariantsFor(width, height); variants > max {
				logger.Warn("variants exceed maximum for resolution, clamping",
					zap.Int("requested", variants), zap.Int("max", max))
				variants = max
			}

			job, err := client.CreateJob(ctx, types.GenerationRequest{
				Prompt:   prompt,
				Width:    width,
				Height:   height,
				Duration: duration,
				Variants: variants,
			})
			if err != nil {
				return err
			}
			logger.Info("job created", zap.String("job_id", job.ID))

			job, generations, err := client.PollUntilTerminal(ctx, job.ID, pollInterval, maxPolls)
			if err != nil {
				return err
			}
			if job.Status != types.JobStatusSucceeded {
				logger.Warn("job did not succeed", zap.String("status", string(job.Status)))
				return nil
			}

			// Download everything before deleting the job: deletion may
			// invalidate the generations' content references.
			for _, gen := range generations {
				result, err := client.DownloadGeneration(ctx, gen.ID, outputDir)
				if err != nil {
					return err
				}
				logger.Info("video downloaded", zap.String("path", result.VideoPath))
				if result.GIFErr != nil {
					logger.Warn("preview animation skipped", zap.Error(result.GIFErr))
				} else {
					logger.Info("preview animation downloaded", zap.String("path", result.GIFPath))
				}
			}

			if keep {
				return nil
			}
			if err := client.DeleteJob(ctx, job.ID); err != nil {
				logger.Warn("cleanup failed, job left on server",
					zap.String("job_id", job.ID), zap.Error(err))
				return nil
			}
			logger.Info("job deleted", zap.String("job_id", job.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "text prompt for the video")
	cmd.Flags().IntVar(&width, "width", 480, "video width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "video height in pixels")
	cmd.Flags().IntVar(&duration, "duration", 5, "video duration in seconds")
	cmd.Flags().IntVar(&variants, "variants", 1, "number of variants to generate")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "directory for downloaded media")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 5*time.Second, "delay between status checks")
	cmd.Flags().IntVar(&maxPolls, "max-polls", 0, "maximum status checks before giving up (0 = unlimited)")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave the job on the server after downloading")
	cmd.MarkFlagRequired("prompt")

	return cmd
}

func newDownloadCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download <generation-id>",
		Short: "Download the media of a completed generation",
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

			result, err := client.DownloadGeneration(cmd.Context(), args[0], outputDir)
			if err != nil {
				return err
			}
			logger.Info("video downloaded", zap.String("path", result.VideoPath))
			if result.GIFErr != nil {
				logger.Warn("preview animation skipped", zap.Error(result.GIFErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "directory for downloaded media")
	return cmd
}
