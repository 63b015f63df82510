package rule

import (
	"time"

	"careminder/internal/model"
)

// Evaluator decides, for one reminder row and one instant, whether a
// notification is due. Evaluation is pure apart from the meal-time lookup;
// idempotence within a matching minute comes from the tick cadence, not from
// any state held here.
type Evaluator struct {
	Meals MealTimeProvider
}

func NewEvaluator(meals MealTimeProvider) *Evaluator {
	return &Evaluator{Meals: meals}
}

// Evaluate dispatches on the rule kind. Unknown kinds never fire.
func (e *Evaluator) Evaluate(row model.ReminderRow, now time.Time) bool {
	switch row.RuleKind {
	case model.RuleOnce:
		return evalOnce(row, now)
	case model.RuleNTimes:
		return evalNTimes(row, now)
	case model.RuleInterval:
		return evalInterval(row, now)
	case model.RuleMealBased:
		return e.evalMealBased(row, now)
	case model.RuleBedtime:
		return evalBedtime(row, now)
	case model.RuleDuration:
		return evalDuration(row, now)
	default:
		return false
	}
}

func evalOnce(row model.ReminderRow, now time.Time) bool {
	start, ok := ParseTimeOfDay(row.StartTime)
	return ok && start.Matches(now)
}

// evalNTimes fires on the listed strict times when present, otherwise on
// every interval boundary from start_time until count boundaries have passed.
func evalNTimes(row model.ReminderRow, now time.Time) bool {
	extras := ParseExtras(row.Extras)
	if len(extras.StrictTimes) > 0 {
		return matchesAny(extras.StrictTimes, now)
	}
	start, ok := ParseTimeOfDay(row.StartTime)
	if !ok || row.IntervalHours <= 0 || row.Count <= 0 {
		return false
	}
	diff := hoursSinceStart(start, now)
	return diff%row.IntervalHours == 0 && diff/row.IntervalHours < row.Count
}

// hoursSinceStart measures whole hours from the most recent daily occurrence
// of start at or before now. An instant earlier than today's occurrence is
// counted from yesterday's, so a 6-hour chain started at 08:00 keeps firing
// past midnight (02:00 is 18 hours in, not minus six).
func hoursSinceStart(start TimeOfDay, now time.Time) int {
	diff := start.HoursSince(now)
	if diff < 0 {
		diff += 24
	}
	return diff
}

func evalInterval(row model.ReminderRow, now time.Time) bool {
	start, ok := ParseTimeOfDay(row.StartTime)
	if !ok || row.IntervalHours <= 0 {
		return false
	}
	return hoursSinceStart(start, now)%row.IntervalHours == 0
}

// evalMealBased requires extras.relation to be present but does not branch on
// its value; the field is reserved.
func (e *Evaluator) evalMealBased(row model.ReminderRow, now time.Time) bool {
	extras := ParseExtras(row.Extras)
	if len(extras.Meals) == 0 || extras.Relation == "" {
		return false
	}
	times := e.Meals.MealTimes(row.AssigneeUUID)
	for _, meal := range extras.Meals {
		if at, ok := times[meal]; ok && at.Matches(now) {
			return true
		}
	}
	return false
}

const defaultBedtime = "22:00"

func evalBedtime(row model.ReminderRow, now time.Time) bool {
	configured := ParseExtras(row.Extras).BedtimeTime
	if configured == "" {
		configured = defaultBedtime
	}
	bedtime, ok := ParseTimeOfDay(configured)
	return ok && bedtime.Matches(now)
}

// evalDuration fires on the listed strict times from the task's creation day
// through creation day + duration_days inclusive, by calendar date.
func evalDuration(row model.ReminderRow, now time.Time) bool {
	extras := ParseExtras(row.Extras)
	if row.DurationDays <= 0 || len(extras.StrictTimes) == 0 {
		return false
	}
	end := row.CreatedAt.AddDate(0, 0, row.DurationDays)
	if !sameOrBeforeDate(now, end) {
		return false
	}
	return matchesAny(extras.StrictTimes, now)
}
