package checks

import (
	"context"
	"math"
	"time"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// TimeWindow validates capture timestamps against the sanction date: photos
// must not predate sanction (unless allowed) and must land within the
// configured number of days after it. Items without a parseable timestamp
// are skipped.
type TimeWindow struct{}

func (TimeWindow) Run(_ context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()

	raw, ok := sub.RawSanctionDate()
	if !ok {
		return res
	}
	sanction, err := parseSanctionDate(raw)
	if err != nil {
		res.AddFlag(check.FlagInvalidSanctionDate)
		return res
	}

	maxDaysAfter := rules.Time.MaxDaysAfter()
	allowBefore := rules.Time.AllowBeforeSanction

	var earliest, latest *time.Time
	for _, m := range sub.Media {
		captured, ok := m.CapturedTime()
		if !ok {
			continue
		}
		c := captured
		if earliest == nil || c.Before(*earliest) {
			earliest = &c
		}
		if latest == nil || c.After(*latest) {
			latest = &c
		}

		if c.Before(sanction) && !allowBefore {
			res.AddFlag(check.FlagPhotoBeforeSanction)
		}
		if wholeDaysBetween(sanction, c) > maxDaysAfter {
			res.AddFlag(check.FlagPhotoTooLate)
		}
	}

	if earliest != nil {
		res.SetFeature(check.FeatEarliestCapture, earliest.Format(time.RFC3339))
		res.SetFeature(check.FeatLatestCapture, latest.Format(time.RFC3339))
		res.SetFeature(check.FeatSanctionDate, sanction.Format(time.RFC3339))
		res.SetFeature(check.FeatDaysAfterSanction, wholeDaysBetween(sanction, *earliest))
	}
	return res
}

func parseSanctionDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// wholeDaysBetween floors, so a capture 23h after sanction is day 0 and one
// an hour before sanction is day -1.
func wholeDaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
