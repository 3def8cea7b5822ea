package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/logger"
	"github.com/spigell/hr-signals/internal/pipeline"
)

var psychologyCmd = &cobra.Command{
	Use:   "psychology",
	Short: "Full employee analysis: psychological profile, attrition risk and retention plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
			var req pipeline.EmployeeRequest
			if err := readInput(inputFile(cmd), cmd.InOrStdin(), &req); err != nil {
				return err
			}

			res, err := env.service.AnalyzeEmployee(ctx, req)
			if err != nil {
				return err
			}

			env.logger.Info("employee analyzed",
				zap.String(logger.FieldAnalysisID, res.AnalysisID),
				zap.String(logger.FieldEmployeeID, req.Employee.ID),
				zap.String("risk_level", string(res.Risk.RiskLevel)),
			)
			return writeJSON(cmd.OutOrStdout(), res)
		})
	},
}

var candidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Analyze a resume and print the hiring recommendation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
			var req pipeline.CandidateRequest
			if err := readInput(inputFile(cmd), cmd.InOrStdin(), &req); err != nil {
				return err
			}

			res, err := env.service.AnalyzeCandidate(ctx, req)
			if err != nil {
				return err
			}

			env.logger.Info("candidate analyzed",
				zap.String(logger.FieldAnalysisID, res.AnalysisID),
				zap.String("decision", string(res.Recommendation.Decision)),
			)
			return writeJSON(cmd.OutOrStdout(), res)
		})
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze a JSON array of employee records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
			res, err := runBatch(ctx, cmd, env)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(psychologyCmd, candidateCmd, batchCmd)

	for _, c := range []*cobra.Command{psychologyCmd, candidateCmd, batchCmd} {
		c.Flags().StringP("file", "f", "-", "JSON input file, - reads stdin")
	}
	batchCmd.Flags().Int("max-batch-size", 0, "reject batches larger than this (default is pipeline.max-batch-size)")
}

func inputFile(cmd *cobra.Command) string {
	flag := cmd.Flag("file")
	if flag == nil {
		return "-"
	}
	return flag.Value.String()
}

func runBatch(ctx context.Context, cmd *cobra.Command, env *environment) (*pipeline.BatchResult, error) {
	var records []pipeline.BatchRecord
	if err := readInput(inputFile(cmd), cmd.InOrStdin(), &records); err != nil {
		return nil, err
	}

	maxSize := 0
	if cmd.Flags().Lookup("max-batch-size") != nil {
		v, err := cmd.Flags().GetInt("max-batch-size")
		if err != nil {
			return nil, fmt.Errorf("parsing max-batch-size: %w", err)
		}
		maxSize = v
	}

	res, err := env.service.BatchAnalyze(ctx, records, maxSize)
	if err != nil {
		return nil, err
	}

	env.logger.Info("batch analyzed",
		zap.String("batch_id", res.BatchID),
		zap.Int("total", res.Summary.Total),
		zap.Int("critical", res.Summary.Critical),
		zap.Int("failed", res.Summary.Failed),
	)
	return res, nil
}

// withEnvironment builds the logger, config and pipeline, runs fn and flushes metrics.
func withEnvironment(cmd *cobra.Command, fn func(context.Context, *environment) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer l.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	env, err := newEnvironment(ctx, config, l)
	if err != nil {
		return err
	}
	defer env.flushMetrics()

	l.Debug("starting", zap.String("command", cmd.CommandPath()), zap.String("version", version))

	return fn(ctx, env)
}
