package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/pipeline"
)

const (
	PromptShowResult        = "Show result"
	PromptReportByRiskLevel = "Report by risk level"
	PromptResultToFile      = "Dump result to file"
	PromptStatus            = "Show collaborator status"
	PromptExit              = "Exit"

	modePsychology = "psychology"
	modeCandidate  = "candidate"
	modeBatch      = "batch"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an analysis and explore the result interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
			return run(ctx, cmd, env)
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("mode", "m", modePsychology, "what the input holds: psychology, candidate or batch")
	runCmd.Flags().StringP("file", "f", "-", "JSON input file, - reads stdin")
	runCmd.Flags().Int("max-batch-size", 0, "reject batches larger than this (default is pipeline.max-batch-size)")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print the result as JSON without asking what to do")
}

// session is the result of one run.
type session struct {
	mode   string
	result any
	batch  *pipeline.BatchResult
}

func run(ctx context.Context, cmd *cobra.Command, env *environment) error {
	mode := strings.ToLower(strings.TrimSpace(cmd.Flag("mode").Value.String()))

	env.logger.Info("starting the analysis", zap.String("mode", mode), zap.String("version", version))

	s, err := analyze(ctx, cmd, env, mode)
	if err != nil {
		return err
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return writeJSON(cmd.OutOrStdout(), s.result)
	}

	prompt := promptui.Select{
		Label: "What next?",
		Items: menuItems(s),
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		if err := handleAction(action, cmd, env, s); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func analyze(ctx context.Context, cmd *cobra.Command, env *environment, mode string) (*session, error) {
	s := &session{mode: mode}
	file := inputFile(cmd)

	switch mode {
	case modePsychology:
		var req pipeline.EmployeeRequest
		if err := readInput(file, cmd.InOrStdin(), &req); err != nil {
			return nil, err
		}
		res, err := env.service.AnalyzeEmployee(ctx, req)
		if err != nil {
			return nil, err
		}
		s.result = res
	case modeCandidate:
		var req pipeline.CandidateRequest
		if err := readInput(file, cmd.InOrStdin(), &req); err != nil {
			return nil, err
		}
		res, err := env.service.AnalyzeCandidate(ctx, req)
		if err != nil {
			return nil, err
		}
		s.result = res
	case modeBatch:
		res, err := runBatch(ctx, cmd, env)
		if err != nil {
			return nil, err
		}
		s.result, s.batch = res, res
	default:
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}

	return s, nil
}

func menuItems(s *session) []string {
	items := []string{PromptShowResult}
	if s.batch != nil {
		items = append(items, PromptReportByRiskLevel)
	}
	return append(items, PromptResultToFile, PromptStatus, PromptExit)
}

func handleAction(action string, cmd *cobra.Command, env *environment, s *session) error {
	switch action {
	case PromptShowResult:
		return writeJSON(cmd.OutOrStdout(), s.result)
	case PromptReportByRiskLevel:
		if s.batch == nil {
			return fmt.Errorf("report by risk level needs batch mode, got %s", s.mode)
		}
		pretty, err := json.MarshalIndent(s.batch.ReportByRiskLevel(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal risk level report: %w", err)
		}
		env.logger.Info(string(pretty), zap.Int("records count", s.batch.Len()))
		return nil
	case PromptResultToFile:
		filename, err := dumpToTmpFile(s.mode, s.result)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		env.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptStatus:
		return writeJSON(cmd.OutOrStdout(), env.service.Describe())
	case PromptExit:
		env.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// dumpToTmpFile writes v as indented JSON into a new temporary file.
func dumpToTmpFile(prefix string, v any) (string, error) {
	file, err := os.CreateTemp("", prefix+"_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeJSON(file, v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
