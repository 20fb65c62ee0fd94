package oracle

import "github.com/jack22dx/seed/internal/activity"

// Bank is the reference content seeded into an empty store.
type Bank struct {
	Prompts []Prompt
	Facts   []Fact
	Tips    []Tip
}

// DefaultBank returns the built-in content.
func DefaultBank() Bank {
	j, m, d := activity.Journaling, activity.Meditation, activity.DigitalDetox
	return Bank{
		Prompts: []Prompt{
			{Type: j, ID: 1, Level: 1, Seq: 1, Text: "What made you smile today?"},
			{Type: j, ID: 2, Level: 1, Seq: 2, Text: "Name one thing you are grateful for and why."},
			{Type: j, ID: 3, Level: 1, Seq: 3, Text: "What drained your energy today?"},
			{Type: j, ID: 4, Level: 2, Seq: 1, Text: "Describe a moment this week when you felt calm."},
			{Type: j, ID: 5, Level: 2, Seq: 2, Text: "What would you tell yourself from a year ago?"},
			{Type: j, ID: 6, Level: 2, Seq: 3, Text: "Which habit do you want to grow next week?"},
			{Type: j, ID: 7, Level: 3, Seq: 1, Text: "What are you holding onto that you could let go of?"},
			{Type: j, ID: 8, Level: 3, Seq: 2, Text: "Write a short letter to someone who helped you."},
			{Type: m, ID: 1, Level: 1, Seq: 1, Text: "How did your body feel at the start of the session?"},
			{Type: m, ID: 2, Level: 1, Seq: 2, Text: "Where did your mind wander most often?"},
			{Type: m, ID: 3, Level: 2, Seq: 1, Text: "What changed between the first and last minute?"},
			{Type: d, ID: 1, Level: 1, Seq: 1, Text: "What did you do instead of reaching for your phone?"},
			{Type: d, ID: 2, Level: 1, Seq: 2, Text: "Which app did you miss the least?"},
			{Type: d, ID: 3, Level: 2, Seq: 1, Text: "How did your attention feel after an hour offline?"},
		},
		Facts: []Fact{
			{Type: j, ID: 1, Text: "Writing about emotions for fifteen minutes a day can lower stress."},
			{Type: j, ID: 2, Text: "Gratitude journaling is linked to better sleep quality."},
			{Type: j, ID: 3, Text: "Handwriting engages memory more than typing."},
			{Type: m, ID: 1, Text: "Even five minutes of focused breathing slows the heart rate."},
			{Type: m, ID: 2, Text: "Regular meditation is associated with improved attention span."},
			{Type: m, ID: 3, Text: "Slow exhalation activates the parasympathetic nervous system."},
			{Type: d, ID: 1, Text: "The average person checks their phone dozens of times a day."},
			{Type: d, ID: 2, Text: "Screens before bed delay the release of melatonin."},
			{Type: d, ID: 3, Text: "Notifications fragment attention even when ignored."},
		},
		Tips: []Tip{
			{Type: j, Level: 1, Seq: 1, Text: "Write without editing; spelling does not matter here."},
			{Type: j, Level: 1, Seq: 2, Text: "Set a timer for five minutes and keep the pen moving."},
			{Type: j, Level: 2, Seq: 1, Text: "Re-read last week's answers before writing today's."},
			{Type: m, Level: 1, Seq: 1, Text: "Sit comfortably and let your breath find its own pace."},
			{Type: m, Level: 1, Seq: 2, Text: "When your mind wanders, gently return to the breath."},
			{Type: m, Level: 2, Seq: 1, Text: "Try counting ten breaths, then start again at one."},
			{Type: d, Level: 1, Seq: 1, Text: "Put your phone in another room for the first hour."},
			{Type: d, Level: 1, Seq: 2, Text: "Turn off non-essential notifications."},
			{Type: d, Level: 2, Seq: 1, Text: "Replace one scroll session with a short walk."},
		},
	}
}
