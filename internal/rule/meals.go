package rule

// MealTimes maps meal names to their time of day for one assignee.
type MealTimes map[string]TimeOfDay

// MealTimeProvider resolves the named meal times of an assignee. Meal-based
// rules fire when the current minute matches any of the rule's listed meals.
type MealTimeProvider interface {
	MealTimes(assigneeUUID string) MealTimes
}

// StaticMealTimes serves the same fixed schedule to every assignee.
type StaticMealTimes MealTimes

func (s StaticMealTimes) MealTimes(string) MealTimes { return MealTimes(s) }

// DefaultMealTimes is the schedule used until per-user meal preferences exist.
func DefaultMealTimes() StaticMealTimes {
	return StaticMealTimes{
		"breakfast": At(8, 0),
		"lunch":     At(13, 0),
		"dinner":    At(19, 0),
	}
}
