// Package seed populates an empty database with a demo briefing so a
// fresh install has something to show.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/service"
)

const demoRawText = "Line 3 conveyor belt has been making a grinding noise since around 2 PM. " +
	"I put in a maintenance ticket but nobody came yet. Keep an ear on it, if it gets worse, shut it down. " +
	"Machine 7 bearing temperature spiked to 185F about an hour ago, came back down to 160F but that's still above normal. " +
	"I'd recommend scheduling a bearing inspection before end of week. " +
	"We hit 94% of target on Line 1, missed goal because of a 20-minute jam at the packaging station around 4 PM. Cleared it but watch for recurrence. " +
	"Safety note: there's an oil slick near the south exit by Machine 12. I put cones up but it needs proper cleanup. " +
	"New guy Marcus is doing great on QA but still needs supervision on the rejection criteria for Class B defects. " +
	"Oh and the coffee machine in the break room is broken again."

// BriefingCounter reports how many briefings exist.
type BriefingCounter interface {
	Count(ctx context.Context) (int64, error)
}

// BriefingSubmitter runs one submission through the briefing pipeline.
type BriefingSubmitter interface {
	Create(ctx context.Context, input service.CreateBriefingInput) (*domain.Briefing, error)
}

// DemoBriefing submits the demo shift handoff through the normal
// briefing pipeline when the database holds no briefings yet.
func DemoBriefing(ctx context.Context, counter BriefingCounter, submitter BriefingSubmitter) error {
	count, err := counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count briefings: %w", err)
	}
	if count > 0 {
		return nil
	}

	briefing, err := submitter.Create(ctx, service.CreateBriefingInput{
		RawText:    demoRawText,
		ShiftLabel: "Night -> Day",
		Author:     "Mike R.",
	})
	if err != nil {
		return fmt.Errorf("failed to create demo briefing: %w", err)
	}

	log.Printf("seed: created demo briefing %s", briefing.ID)
	return nil
}
