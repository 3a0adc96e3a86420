package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spigell/jobradar/internal/aggregator"
	"github.com/spigell/jobradar/internal/filtering"
	"github.com/spigell/jobradar/internal/job"
	"github.com/spigell/jobradar/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit              = "Exit"
	PromptReportByCompanies = "Report by companies"
	PromptJobsToFile        = "Dump jobs to file"
	PromptAppendToSeenFile  = "Append all jobs to seen file"
)

var errExit = errors.New("exit requested")

var discoverPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptReportByCompanies, PromptJobsToFile, PromptAppendToSeenFile, PromptExit},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Fetch, normalize and deduplicate jobs from all configured sources",
	Run: func(_ *cobra.Command, _ []string) {
		discover()
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringP("seen-file", "s", "", "file with fingerprints of already seen jobs. Default is unset.")

	viper.BindPFlag("seen-file", discoverCmd.Flags().Lookup("seen-file"))
}

// discover is the aggregation-only command for the cli.
func discover() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobradar discovery", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if len(config.Sources) == 0 {
		logger.Fatal("at least one source is required under the sources key")
	}

	sources, err := buildSources(config.Sources, logger)
	if err != nil {
		logger.Fatal("building sources", zap.Error(err))
	}

	agg := aggregator.New(sources...)

	postings, ingestErrors := agg.AggregateWithErrors(ctx, nil)

	logger.Info("aggregation finished",
		zap.Int("jobs", len(postings)),
		zap.Int("errors", len(ingestErrors)),
	)

	reportIngestErrors(config, ingestErrors, logger)

	if len(postings) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	matches := wrapPostings(postings)

	filters := filtering.New([]filtering.Filter{
		filtering.NewExcludedCompanies(excludedCompanies(config)),
		filtering.NewSeenFile(seenFilePath(config)),
	}, logger)

	matches, err = filters.Run(matches)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	for {
		_, action, err := discoverPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of jobs", zap.Int("count", len(matches)))

		if err := handleDiscoverAction(action, config, logger, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleDiscoverAction(action string, config *Config, logger *zap.Logger, matches []*filtering.Match) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(job.ReportByCompany(postingsOf(matches)), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", len(matches)))
		return nil
	case PromptJobsToFile:
		filename, err := dumpJobs(config, postingsOf(matches))
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

func appendToSeenFile(config *Config, logger *zap.Logger, matches []*filtering.Match) error {
	path := seenFilePath(config)
	if path == "" {
		return errors.New("seen file is not configured")
	}

	seen, err := filtering.GetSeenJobsFromFile(path)
	if err != nil {
		return err
	}

	seen.Append(filtering.MarkSeen(matches))

	if err := seen.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to seen file", zap.String("filename", path))
	return nil
}

// dumpJobs writes postings to the configured jobs output, falling back
// to a temporary file when no output is configured.
func dumpJobs(config *Config, postings []*job.Posting) (string, error) {
	if config.Output != nil && config.Output.Jobs != "" {
		return config.Output.Jobs, writeJSONFile(config.Output.Jobs, postingMaps(postings))
	}

	return job.DumpToTmpFile(postings)
}

func reportIngestErrors(config *Config, ingestErrors []aggregator.IngestError, logger *zap.Logger) {
	if len(ingestErrors) == 0 {
		return
	}

	for _, e := range ingestErrors {
		fields := []zap.Field{zap.String("source", e.Source)}
		if e.Index != nil {
			fields = append(fields, zap.Int("index", *e.Index))
		}
		logger.Warn(e.Message, fields...)
	}

	if config.Output != nil && config.Output.Errors != "" {
		if err := writeJSONFile(config.Output.Errors, ingestErrors); err != nil {
			logger.Warn("writing errors file", zap.Error(err))
			return
		}
		logger.Info("ingest errors written", zap.String("filename", config.Output.Errors))
	}
}

func wrapPostings(postings []*job.Posting) []*filtering.Match {
	matches := make([]*filtering.Match, 0, len(postings))
	for _, p := range postings {
		matches = append(matches, &filtering.Match{Posting: p})
	}

	return matches
}

func postingsOf(matches []*filtering.Match) []*job.Posting {
	postings := make([]*job.Posting, 0, len(matches))
	for _, m := range matches {
		postings = append(postings, m.Posting)
	}

	return postings
}

func postingMaps(postings []*job.Posting) []map[string]any {
	maps := make([]map[string]any, 0, len(postings))
	for _, p := range postings {
		maps = append(maps, p.ToMap())
	}

	return maps
}

func excludedCompanies(config *Config) []string {
	if config.Exclude == nil {
		return nil
	}

	return config.Exclude.Companies
}

func seenFilePath(config *Config) string {
	if path := viper.GetString("seen-file"); path != "" {
		return path
	}

	return config.SeenFile
}
