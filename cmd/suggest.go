package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/store"
)

func newSuggestCmd() *cobra.Command {
	var (
		participants string
		duration     int
		from         string
		to           string
		dataDir      string
		maxResults   int
		priority     string
		timeOfDay    string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest meeting slots for a set of participants",
		Long: `Search the shared schedule for meeting slots that work for every
participant and print the best candidates with their scores.

The search range defaults to the coming seven days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := parseCommaSeparatedList(participants)
			if len(ids) == 0 {
				return fmt.Errorf("at least one participant is required (--participants)")
			}

			now := time.Now().UTC()
			window := schedule.Interval{Start: now, End: now.AddDate(0, 0, 7)}
			if from != "" {
				start, err := time.Parse(time.RFC3339, from)
				if err != nil {
					return fmt.Errorf("invalid --from value: %w", err)
				}
				window.Start = start.UTC()
				window.End = window.Start.AddDate(0, 0, 7)
			}
			if to != "" {
				end, err := time.Parse(time.RFC3339, to)
				if err != nil {
					return fmt.Errorf("invalid --to value: %w", err)
				}
				window.End = end.UTC()
			}
			if err := window.Validate(); err != nil {
				return err
			}

			if !cmd.Flags().Changed("data-dir") {
				if dir := os.Getenv("MEETFEWER_DATA_DIR"); dir != "" {
					dataDir = dir
				}
			}

			ctx := context.Background()
			st, err := store.Open(ctx, dataDir)
			if err != nil {
				return fmt.Errorf("failed to open schedule store: %w", err)
			}

			engine := schedule.NewEngine(st.Snapshot(), now)
			slots, err := engine.FindOptimalSlots(schedule.SlotRequest{
				ParticipantIDs: ids,
				Duration:       time.Duration(duration) * time.Minute,
				Range:          window,
				MaxResults:     maxResults,
				Priority:       priority,
				TimeOfDay:      timeOfDay,
			})
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Println("No feasible slots found in the requested range.")
				return nil
			}

			for _, slot := range slots {
				fmt.Printf("%d. %s  (%d min, score %.1f)\n",
					slot.Rank,
					slot.Start.Format("Mon Jan 2 15:04 MST"),
					int(slot.End.Sub(slot.Start).Minutes()),
					slot.Scores.Overall)

				impactIDs := make([]string, 0, len(slot.ParticipantImpact))
				for id := range slot.ParticipantImpact {
					impactIDs = append(impactIDs, id)
				}
				sort.Strings(impactIDs)
				for _, id := range impactIDs {
					impact := slot.ParticipantImpact[id]
					fmt.Printf("   %-16s %s (%s)\n", id, impact.LocalTime, impact.Impact)
				}

				fmt.Printf("   %s\n", slot.Explanation)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&participants, "participants", "", "Comma-separated participant IDs (required)")
	cmd.Flags().IntVar(&duration, "duration", 30, "Meeting duration in minutes")
	cmd.Flags().StringVar(&from, "from", "", "Search range start (RFC3339). Defaults to now.")
	cmd.Flags().StringVar(&to, "to", "", "Search range end (RFC3339). Defaults to seven days after the start.")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory containing the schedule data files (default: platform data dir). Can also use MEETFEWER_DATA_DIR env var.")
	cmd.Flags().IntVar(&maxResults, "max-results", 5, "Maximum number of slots to print")
	cmd.Flags().StringVar(&priority, "priority", "", "Meeting priority hint; \"high\" boosts preference scoring")
	cmd.Flags().StringVar(&timeOfDay, "time-of-day", "", "Preferred band: early_morning, morning, afternoon, late_afternoon, or evening")

	return cmd
}
