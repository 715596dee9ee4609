package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/metrics"
)

const (
	PromptExit = "exit"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one aggregated job search and browse the results",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", jobs.DefaultQuery, "search query")
	searchCmd.Flags().StringP("location", "l", jobs.DefaultLocation, "search location")
	searchCmd.Flags().IntP("results", "n", jobs.DefaultResultsWanted, "results wanted per term and provider")
	searchCmd.Flags().BoolP("print", "p", false, "print the result as json and exit without prompting")
}

func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// One-shot searches never read a stale cached answer.
	config.Cache.Enabled = false

	aggregator, cleanup, err := prepareAggregator(ctx, config, metrics.New(), logger)
	if err != nil {
		logger.Fatal("preparing the search pipeline", zap.Error(err))
	}
	defer cleanup()

	query, _ := cmd.Flags().GetString("query")
	location, _ := cmd.Flags().GetString("location")
	results, _ := cmd.Flags().GetInt("results")

	logger.Info("starting the search", zap.String("search", query), zap.String("location", location))

	batch, outcome := aggregator.Search(ctx, jobs.SearchQuery{
		Query:         query,
		Location:      location,
		ResultsWanted: results,
	})

	logger.Info("search finished", zap.String("outcome", string(outcome)), zap.Int("count", len(batch)))

	if printJSON, _ := cmd.Flags().GetBool("print"); printJSON {
		pretty, _ := json.MarshalIndent(batch, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	if err := browse(batch, logger); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// browse lets the user pick postings one at a time until exit is chosen.
func browse(batch []jobs.Job, logger *zap.Logger) error {
	items := make([]string, 0, len(batch)+1)
	for _, job := range batch {
		items = append(items, jobLabel(job))
	}
	items = append(items, PromptExit)

	for {
		jobPrompt := promptui.Select{
			Label: "Choose a job and press ENTER",
			Items: items,
			Size:  15,
		}

		idx, selected, err := jobPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptExit {
			return nil
		}

		pretty, _ := json.MarshalIndent(batch[idx], "", "  ")
		logger.Info(string(pretty), zap.String("job_url", batch[idx].JobURL))
	}
}

func jobLabel(job jobs.Job) string {
	label := fmt.Sprintf("%s / %s / %s", job.Title, job.Company, job.Site)
	if job.Salary != "" {
		label += " / " + job.Salary
	}
	return label
}
