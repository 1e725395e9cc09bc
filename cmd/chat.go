package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/meresu/lead-advisor/internal/advisor"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptDone = "done"
	PromptQuit = "quit"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the advisor about qualified leads from the terminal",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chat() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store := leads.NewStore(config.ProjectsFile, logger)
	if err := store.Reload(); err != nil {
		logger.Fatal("loading qualified leads", zap.Error(err))
	}

	projects := store.Snapshot()
	if projects.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no qualified leads loaded, run the pipeline first"))
		return
	}

	adv, err := buildAdvisor(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the advisor", zap.Error(err))
	}

	profile, err := promptProfile(projects)
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	for {
		queryPrompt := promptui.Prompt{
			Label: fmt.Sprintf("Ask about the leads (or %q)", PromptQuit),
		}

		query, err := queryPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if strings.EqualFold(strings.TrimSpace(query), PromptQuit) {
			return
		}

		reply := adv.Advise(ctx, profile, query, store.Snapshot())

		fmt.Println()
		fmt.Println(reply.Text)
		fmt.Println()

		if reply.Source == advisor.SourceLocal && reply.FallbackReason != "" {
			logger.Debug("reply composed locally", zap.String("reason", reply.FallbackReason))
		}
	}
}

func promptProfile(projects *leads.Projects) (leads.Profile, error) {
	profile := leads.Profile{}

	rolePrompt := promptui.Prompt{Label: "Your role"}
	role, err := rolePrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.Role = strings.TrimSpace(role)

	companyPrompt := promptui.Prompt{Label: "Your company"}
	company, err := companyPrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.Company = strings.TrimSpace(company)

	tags, err := promptTags(projects.Types())
	if err != nil {
		return profile, err
	}
	profile.InterestTags = tags

	return profile, nil
}

// promptTags lets the user pick interest tags from the project types present
// in the current lead set. Picking nothing is fine; the advisor falls back
// to general steel opportunities.
func promptTags(types []string) ([]string, error) {
	if len(types) == 0 {
		return nil, nil
	}

	picked := make([]string, 0, len(types))
	remaining := append([]string{}, types...)

	for len(remaining) > 0 {
		tagPrompt := promptui.Select{
			Label: "Pick an interest tag and press ENTER",
			Items: append([]string{PromptDone}, remaining...),
		}

		_, selected, err := tagPrompt.Run()
		if err != nil {
			// Interrupt during tag selection just means "done picking".
			if errors.Is(err, promptui.ErrInterrupt) {
				break
			}
			return nil, err
		}

		if selected == PromptDone {
			break
		}

		picked = append(picked, selected)
		remaining = removeTag(remaining, selected)
	}

	return picked, nil
}

func removeTag(tags []string, tag string) []string {
	out := tags[:0]
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
