package ops

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/oracle"
)

func insertAnswers(t *testing.T, ledger *Ledger, answers []oracle.Answer) {
	t.Helper()
	for i := range answers {
		if err := db.InsertAnswer(context.Background(), ledger.db, &answers[i]); err != nil {
			t.Fatalf("insert answer %s: %v", answers[i].ID, err)
		}
	}
}

func TestNextPrompt(t *testing.T) {
	_, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	p, err := NextPrompt(ctx, database, NextPromptInput{Type: "journaling"})
	mustNoErr(t, err)
	if p.Type != activity.Journaling || p.Level != 1 || p.Seq != 1 {
		t.Errorf("prompt = %+v, want Journaling level 1 seq 1", p)
	}

	p, err = NextPrompt(ctx, database, NextPromptInput{Type: activity.Journaling, Level: 3, Seq: 2})
	mustNoErr(t, err)
	if p.ID != 8 {
		t.Errorf("id = %d, want 8", p.ID)
	}

	tests := []struct {
		name  string
		input NextPromptInput
		code  errors.ErrorCode
	}{
		{"missing level", NextPromptInput{Type: activity.Meditation, Level: 7, Seq: 1}, errors.ErrNotFound},
		{"unknown type", NextPromptInput{Type: "Yoga"}, errors.ErrUnknownActivity},
		{"negative level", NextPromptInput{Type: activity.Meditation, Level: -1}, errors.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextPrompt(ctx, database, tt.input)
			requireCode(t, err, tt.code)
		})
	}
}

func TestRecordAnswer_SamePromptTwice(t *testing.T) {
	ledger, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	input := AnswerInput{Type: activity.Journaling, PromptID: 1, Tab: "Mood", Activity: "evening", Level: 1, Answer: "A walk"}
	first, err := ledger.RecordAnswer(ctx, input)
	mustNoErr(t, err)
	input.Answer = "A call with a friend"
	second, err := ledger.RecordAnswer(ctx, input)
	mustNoErr(t, err)
	if first.ID == second.ID {
		t.Errorf("answers share id %s", first.ID)
	}

	answers, err := db.ListAnswers(ctx, database, activity.Journaling, 0)
	mustNoErr(t, err)
	if len(answers) != 2 {
		t.Fatalf("len = %d, want 2", len(answers))
	}
	for _, a := range answers {
		if a.PromptID != 1 {
			t.Errorf("prompt id = %d, want 1", a.PromptID)
		}
	}
}

func TestRecordAnswer_StampedWithLedgerClock(t *testing.T) {
	ledger, _, clock := newTestLedger(t, wednesday)
	ctx := context.Background()

	a, err := ledger.RecordAnswer(ctx, AnswerInput{Type: activity.Journaling, PromptID: 1, Tab: "Mood", Answer: "early"})
	mustNoErr(t, err)
	if a.Date != wednesday.Unix() {
		t.Errorf("date = %d, want %d", a.Date, wednesday.Unix())
	}

	clock.t = wednesday.AddDate(0, 0, 7)
	_, err = ledger.RecordAnswer(ctx, AnswerInput{Type: activity.Journaling, PromptID: 2, Tab: "Mood", Answer: "late"})
	mustNoErr(t, err)

	since := activity.StartOfWeek(ledger.Now()).Unix()
	out, err := WeeklySummary(ctx, ledger.db, SummaryInput{Type: activity.Journaling, Since: since})
	mustNoErr(t, err)
	if out.Total != 1 || out.Groups[0].Entries[0].Answer != "late" {
		t.Errorf("summary = %+v, want only the answer from the current week", out)
	}
}

func TestRecordAnswer_Validation(t *testing.T) {
	ledger, _, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AnswerInput
		code  errors.ErrorCode
	}{
		{"blank answer", AnswerInput{Type: activity.Journaling, PromptID: 1, Answer: "   "}, errors.ErrInvalidRequest},
		{"missing type", AnswerInput{Type: "", Answer: "x"}, errors.ErrInvalidRequest},
		{"unknown type", AnswerInput{Type: "Yoga", Answer: "x"}, errors.ErrUnknownActivity},
		{"negative level", AnswerInput{Type: activity.Journaling, Level: -2, Answer: "x"}, errors.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.RecordAnswer(ctx, tt.input)
			requireCode(t, err, tt.code)
		})
	}

	// Dangling prompt ids are stored as-is.
	a, err := ledger.RecordAnswer(ctx, AnswerInput{Type: activity.Journaling, PromptID: 999, Answer: "x"})
	mustNoErr(t, err)
	if a.PromptID != 999 {
		t.Errorf("prompt id = %d, want 999", a.PromptID)
	}
}

func TestWeeklySummary_GroupsAndOrders(t *testing.T) {
	ledger, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	insertAnswers(t, ledger, []oracle.Answer{
		{ID: "01", Type: activity.Journaling, PromptID: 5, Tab: "Reflect", Level: 2, Answer: "level 2 seq 2", Date: 100},
		{ID: "02", Type: activity.Journaling, PromptID: 1, Tab: "Reflect", Level: 1, Answer: "level 1 seq 1", Date: 200},
		{ID: "03", Type: activity.Journaling, PromptID: 4, Tab: "Reflect", Level: 2, Answer: "level 2 seq 1", Date: 300},
		{ID: "04", Type: activity.Journaling, PromptID: 2, Tab: "Gratitude", Level: 1, Answer: "thanks", Date: 400},
		{ID: "05", Type: activity.Meditation, PromptID: 1, Tab: "Body", Level: 1, Answer: "other type", Date: 500},
	})

	out, err := WeeklySummary(ctx, database, SummaryInput{Type: "journaling"})
	mustNoErr(t, err)
	if out.Type != activity.Journaling || out.Total != 4 || out.Unmatched != 0 {
		t.Errorf("summary = type %s total %d unmatched %d, want Journaling 4 0", out.Type, out.Total, out.Unmatched)
	}

	if len(out.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(out.Groups))
	}
	if out.Groups[0].Tab != "Gratitude" || out.Groups[1].Tab != "Reflect" {
		t.Errorf("tabs = %s, %s; want Gratitude, Reflect", out.Groups[0].Tab, out.Groups[1].Tab)
	}

	reflect := out.Groups[1].Entries
	want := []string{"level 1 seq 1", "level 2 seq 1", "level 2 seq 2"}
	if len(reflect) != len(want) {
		t.Fatalf("reflect entries = %d, want %d", len(reflect), len(want))
	}
	for i, w := range want {
		if reflect[i].Answer != w {
			t.Errorf("entry %d = %q, want %q", i, reflect[i].Answer, w)
		}
	}
	if reflect[1].Prompt != "Describe a moment this week when you felt calm." {
		t.Errorf("prompt text = %q", reflect[1].Prompt)
	}
}

func TestWeeklySummary_DanglingAnswersExcluded(t *testing.T) {
	ledger, database, _ := newTestLedger(t, wednesday)

	insertAnswers(t, ledger, []oracle.Answer{
		{ID: "01", Type: activity.DigitalDetox, PromptID: 1, Tab: "Day", Level: 1, Answer: "kept", Date: 1},
		{ID: "02", Type: activity.DigitalDetox, PromptID: 42, Tab: "Day", Level: 1, Answer: "dangling", Date: 2},
		// Prompt 8 exists only for Journaling.
		{ID: "03", Type: activity.DigitalDetox, PromptID: 8, Tab: "Ghost", Level: 3, Answer: "wrong type", Date: 3},
	})

	out, err := WeeklySummary(context.Background(), database, SummaryInput{Type: activity.DigitalDetox})
	mustNoErr(t, err)
	if out.Total != 1 || out.Unmatched != 2 {
		t.Errorf("total %d unmatched %d, want 1 2", out.Total, out.Unmatched)
	}
	if len(out.Groups) != 1 || out.Groups[0].Entries[0].Answer != "kept" {
		t.Errorf("groups = %+v, want only the kept answer", out.Groups)
	}
}

func TestWeeklySummary_SinceAndEmpty(t *testing.T) {
	ledger, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	out, err := WeeklySummary(ctx, database, SummaryInput{Type: activity.Meditation})
	mustNoErr(t, err)
	if out.Groups == nil || len(out.Groups) != 0 {
		t.Errorf("groups = %#v, want empty non-nil slice", out.Groups)
	}

	insertAnswers(t, ledger, []oracle.Answer{
		{ID: "01", Type: activity.Meditation, PromptID: 1, Tab: "Body", Level: 1, Answer: "last week", Date: 1000},
		{ID: "02", Type: activity.Meditation, PromptID: 2, Tab: "Body", Level: 1, Answer: "this week", Date: 2000},
	})

	out, err = WeeklySummary(ctx, database, SummaryInput{Type: activity.Meditation, Since: 1500})
	mustNoErr(t, err)
	if out.Total != 1 || out.Groups[0].Entries[0].Answer != "this week" {
		t.Errorf("summary = %+v, want only this week", out)
	}

	_, err = WeeklySummary(ctx, database, SummaryInput{Type: activity.Meditation, Since: -1})
	requireCode(t, err, errors.ErrInvalidRequest)
}

func TestRandomFact_Seeded(t *testing.T) {
	_, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	a, err := RandomFact(ctx, database, activity.Meditation, rand.New(rand.NewPCG(7, 7)))
	mustNoErr(t, err)
	b, err := RandomFact(ctx, database, activity.Meditation, rand.New(rand.NewPCG(7, 7)))
	mustNoErr(t, err)
	if *a != *b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
	if a.Type != activity.Meditation {
		t.Errorf("type = %s, want Meditation", a.Type)
	}

	f, err := RandomFact(ctx, database, "digital detox", nil)
	mustNoErr(t, err)
	if f.Type != activity.DigitalDetox {
		t.Errorf("type = %s, want Digital Detox", f.Type)
	}

	_, err = RandomFact(ctx, database, "Yoga", nil)
	requireCode(t, err, errors.ErrUnknownActivity)
}

func TestRandomFact_EmptyBank(t *testing.T) {
	database, err := db.Init(t.TempDir())
	mustNoErr(t, err)
	defer database.Close()

	_, err = RandomFact(context.Background(), database, activity.Journaling, nil)
	requireCode(t, err, errors.ErrNotFound)
}

func TestGetTip(t *testing.T) {
	_, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	tip, err := GetTip(ctx, database, TipInput{Type: activity.Meditation})
	mustNoErr(t, err)
	if tip.Text != "Sit comfortably and let your breath find its own pace." {
		t.Errorf("text = %q", tip.Text)
	}

	tip, err = GetTip(ctx, database, TipInput{Type: activity.Meditation, Level: 2, Seq: 1})
	mustNoErr(t, err)
	if tip.Level != 2 {
		t.Errorf("level = %d, want 2", tip.Level)
	}

	_, err = GetTip(ctx, database, TipInput{Type: activity.Meditation, Level: 4})
	requireCode(t, err, errors.ErrNotFound)
}
