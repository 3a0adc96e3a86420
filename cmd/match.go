package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/spigell/jobradar/internal/aggregator"
	"github.com/spigell/jobradar/internal/ai"
	"github.com/spigell/jobradar/internal/ai/gemini"
	"github.com/spigell/jobradar/internal/candidate"
	"github.com/spigell/jobradar/internal/filtering"
	"github.com/spigell/jobradar/internal/logger"
	"github.com/spigell/jobradar/internal/match"
	"github.com/spigell/jobradar/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptMatchesToFile = "Dump matches to file"
	PromptTopMatches    = "Show top matches"
)

var matchPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptTopMatches, PromptMatchesToFile, PromptAppendToSeenFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Aggregate jobs and score them against a candidate profile",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("candidate", "c", "", "path to the candidate profile JSON file")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "dump matches without asking and exit")

	viper.BindPFlag("candidate", matchCmd.Flags().Lookup("candidate"))
}

// matchReport is what ends up in the matches output file.
type matchReport struct {
	Job    map[string]any `json:"job"`
	Match  map[string]any `json:"match"`
	Advice *ai.Advice     `json:"advice,omitempty"`
}

// runMatch is the main command for the cli.
func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobradar matching", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	profile, err := loadCandidate(config)
	if err != nil {
		logger.Fatal(
			"loading candidate profile",
			zap.Error(err),
			zap.String("hint", "set the 'candidate' key in the configuration file or pass --candidate"),
		)
	}

	logger.Info("loaded candidate profile",
		zap.String("name", profile.FullName),
		zap.Int("skills", len(profile.Skills)),
	)

	if len(config.Sources) == 0 {
		logger.Fatal("at least one source is required under the sources key")
	}

	sources, err := buildSources(config.Sources, logger)
	if err != nil {
		logger.Fatal("building sources", zap.Error(err))
	}

	agg := aggregator.New(sources...)

	postings, ingestErrors := agg.AggregateWithErrors(ctx, candidate.BuildQuery(profile))

	logger.Info("aggregation finished",
		zap.Int("jobs", len(postings)),
		zap.Int("errors", len(ingestErrors)),
	)

	reportIngestErrors(config, ingestErrors, logger)

	if len(postings) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	candidateMap := profile.ToMap()

	matches := make([]*filtering.Match, 0, len(postings))
	for _, posting := range postings {
		result, err := match.MatchJob(candidateMap, posting)
		if err != nil {
			logger.Fatal("matching failed",
				zap.Error(err),
				zap.String("job_title", posting.Title),
				zap.String("job_company", posting.Company),
			)
		}

		matches = append(matches, &filtering.Match{Posting: posting, Result: result})
	}

	// Highest score first. Ties keep aggregation order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.OverallScore > matches[j].Result.OverallScore
	})

	filters := filtering.New([]filtering.Filter{
		filtering.NewExcludedCompanies(excludedCompanies(config)),
		filtering.NewSeenFile(seenFilePath(config)),
		filtering.NewMinimumDecision(match.Decision(config.MinimumDecision)),
	}, logger)

	matches, err = filters.Run(matches)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no matches left after filters"))
		return
	}

	advisor, err := prepareAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI advisor", zap.Error(err))
	}

	reports := buildReports(ctx, matches, candidateMap, advisor, logger)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		filename, err := dumpMatches(config, reports)
		if err != nil {
			logger.Fatal("dump results to file", zap.Error(err))
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return
	}

	for {
		_, action, err := matchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of matches", zap.Int("count", len(matches)))

		if err := handleMatchAction(action, config, logger, matches, reports); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleMatchAction(action string, config *Config, logger *zap.Logger, matches []*filtering.Match, reports []*matchReport) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptTopMatches:
		for _, m := range matches {
			logger.Info("match",
				zap.String("title", m.Posting.Title),
				zap.String("company", m.Posting.Company),
				zap.Float64("score", m.Result.OverallScore),
				zap.String("decision", string(m.Result.Decision)),
				zap.Strings("reasons", m.Result.Reasons),
			)
		}
		return nil
	case PromptMatchesToFile:
		filename, err := dumpMatches(config, reports)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToSeenFile:
		return appendToSeenFile(config, logger, matches)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func buildReports(ctx context.Context, matches []*filtering.Match, candidateMap map[string]any, advisor ai.Advisor, logger *zap.Logger) []*matchReport {
	reports := make([]*matchReport, 0, len(matches))

	for _, m := range matches {
		report := &matchReport{
			Job:   m.Posting.ToMap(),
			Match: m.Result.ToMap(),
		}

		if advisor != nil {
			advice, err := advisor.Advise(ctx, candidateMap, m.Posting, m.Result)
			if err != nil {
				logger.Warn("advising failed",
					zap.Error(err),
					zap.String("job_title", m.Posting.Title),
				)
			} else {
				report.Advice = advice
			}
		}

		reports = append(reports, report)
	}

	return reports
}

func loadCandidate(config *Config) (*candidate.Profile, error) {
	path := viper.GetString("candidate")
	if path == "" {
		path = config.Candidate
	}

	if path == "" {
		return nil, errors.New("candidate profile file is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing candidate file %s: %w", path, err)
	}

	return candidate.FromMap(raw), nil
}

func prepareAdvisor(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (ai.Advisor, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai advisor is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  cfg.Gemini.APIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithCommonFields(baseLogger, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		aiLogger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	return gemini.NewAdvisor(generator, cfg.Gemini.MaxLogLength, aiLogger), nil
}

// dumpMatches writes reports to the configured matches output, falling
// back to a temporary file when no output is configured.
func dumpMatches(config *Config, reports []*matchReport) (string, error) {
	if config.Output != nil && config.Output.Matches != "" {
		return config.Output.Matches, writeJSONFile(config.Output.Matches, reports)
	}

	file, err := os.CreateTemp("", "jobradar-matches-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	return file.Name(), encoder.Encode(reports)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
