package garden

import (
	"slices"
	"testing"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/errors"
)

type zeroSource struct{}

func (zeroSource) Uint64() uint64 { return 0 }

func mustLookup(t *testing.T, activityName, name string) Element {
	t.Helper()
	e, ok := Default().Lookup(activityName, name)
	if !ok {
		t.Fatalf("%s/%s not in catalog", activityName, name)
	}
	return e
}

func TestEligible_JournalingEarlyBucket(t *testing.T) {
	names, err := Eligible("Journaling", 2)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	got := slices.Clone(names)
	slices.Sort(got)
	if !slices.Equal(got, []string{"cherryblossom", "rose"}) {
		t.Errorf("names = %v, want rose and cherryblossom", names)
	}
}

func TestEligible_BucketBoundaries(t *testing.T) {
	tests := []struct {
		activity string
		count    int
		want     []string
	}{
		{activity.Journaling, 0, []string{}},
		{activity.Journaling, 1, []string{"rose", "cherryblossom"}},
		{activity.Journaling, 3, []string{"tulip", "lavender", "sunflower"}},
		{activity.Journaling, 5, []string{"tulip", "lavender", "sunflower"}},
		{activity.Journaling, 6, []string{"oak", "willow", "maple"}},
		{activity.Journaling, 600, []string{"oak", "willow", "maple"}},
		{activity.Meditation, 3, []string{"lotus", "lantern"}},
		{activity.Meditation, 4, []string{"bonsai", "bridge"}},
		{activity.DigitalDetox, 1, []string{"snail"}},
		{activity.DigitalDetox, 2, []string{"turtle", "frog"}},
		{activity.DigitalDetox, 5, []string{"butterfly", "koi"}},
	}

	for _, tt := range tests {
		got, err := Eligible(tt.activity, tt.count)
		if err != nil {
			t.Fatalf("%s at %d: %v", tt.activity, tt.count, err)
		}
		if got == nil || !slices.Equal(got, tt.want) {
			t.Errorf("%s at %d = %#v, want %v", tt.activity, tt.count, got, tt.want)
		}
	}
}

func TestEligible_CaseInsensitiveActivity(t *testing.T) {
	names, err := Eligible("  digital DETOX ", 3)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	if !slices.Equal(names, []string{"turtle", "frog"}) {
		t.Errorf("names = %v, want [turtle frog]", names)
	}
}

func TestEligible_UnknownActivity(t *testing.T) {
	_, err := Eligible("Yoga", 1)
	if !errors.Is(err, errors.ErrUnknownActivity) {
		t.Errorf("err = %v, want UNKNOWN_ACTIVITY", err)
	}
}

func TestEligible_ReturnsCopy(t *testing.T) {
	names, err := Eligible(activity.Journaling, 1)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	names[0] = "mutated"

	again, err := Eligible(activity.Journaling, 1)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	if again[0] != "rose" {
		t.Errorf("catalog mutated through returned slice: %v", again)
	}
}

func TestVisibleAt_TurtleThreshold(t *testing.T) {
	turtle := mustLookup(t, "Digital Detox", "Turtle")

	for count, want := range map[int]bool{0: false, 1: false, 2: true} {
		if got := VisibleAt(turtle, count); got != want {
			t.Errorf("turtle at %d = %v, want %v", count, got, want)
		}
	}
}

func TestVisibleAt_Baseline(t *testing.T) {
	for _, name := range []string{"rose", "oak", "sunflower"} {
		if !VisibleAt(mustLookup(t, activity.Journaling, name), 0) {
			t.Errorf("%s should be baseline-visible", name)
		}
	}

	birdhouse := mustLookup(t, activity.Journaling, "birdhouse")
	if VisibleAt(birdhouse, 4) || !VisibleAt(birdhouse, 5) {
		t.Error("birdhouse should appear at 5, not 4")
	}
}

func TestVisibilityIndependentOfSelection(t *testing.T) {
	// Lantern is offered from count 1 but only revealed above 2.
	names, err := Eligible(activity.Meditation, 1)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	if !slices.Contains(names, "lantern") {
		t.Errorf("names = %v, want lantern offered", names)
	}

	if VisibleAt(mustLookup(t, activity.Meditation, "lantern"), 1) {
		t.Error("lantern visible at 1")
	}
}

func TestLookup(t *testing.T) {
	e := mustLookup(t, "meditation", "LOTUS")
	if e.Name != "lotus" || e.Activity != activity.Meditation {
		t.Errorf("lookup = %s/%s", e.Activity, e.Name)
	}
	if e.AssetID != "garden/meditation/lotus.png" {
		t.Errorf("asset = %s", e.AssetID)
	}
	if e.ID != ElementID(activity.Meditation, "lotus") {
		t.Errorf("id = %s", e.ID)
	}

	koi := mustLookup(t, activity.DigitalDetox, "koi")
	if koi.Kind != Animated || koi.AssetID != "garden/digital-detox/koi.gif" {
		t.Errorf("koi = %+v, want animated gif", koi)
	}

	if _, ok := Default().Lookup(activity.DigitalDetox, "dragon"); ok {
		t.Error("dragon found")
	}
	if _, ok := Default().Lookup("Yoga", "lotus"); ok {
		t.Error("lotus found under unknown activity")
	}
}

func TestElementID_Stable(t *testing.T) {
	a := ElementID("Digital Detox", "Turtle")
	b := ElementID(" digital detox", "turtle ")
	if a != b {
		t.Errorf("ids differ: %s %s", a, b)
	}
	if a == ElementID("Digital Detox", "Frog") {
		t.Error("turtle and frog share an id")
	}
	if len(a) != 36 {
		t.Errorf("len = %d, want 36", len(a))
	}
}

func TestCatalog_Activities(t *testing.T) {
	want := []string{activity.Journaling, activity.Meditation, activity.DigitalDetox}
	if got := Default().Activities(); !slices.Equal(got, want) {
		t.Errorf("activities = %v, want %v", got, want)
	}
	if Default().Version() != CatalogVersion {
		t.Errorf("version = %s, want %s", Default().Version(), CatalogVersion)
	}
}

func TestNew_RejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{
			name:  "missing default",
			table: Table{Activity: "A", Default: "x", Elements: []Element{baseline("y")}},
		},
		{
			name: "overlapping buckets",
			table: Table{Activity: "A", Default: "y", Elements: []Element{baseline("y")}, Buckets: []Bucket{
				{Min: 1, Max: 4, Names: []string{"y"}},
				{Min: 3, Max: 6, Names: []string{"y"}},
			}},
		},
		{
			name: "bucket after unbounded",
			table: Table{Activity: "A", Default: "y", Elements: []Element{baseline("y")}, Buckets: []Bucket{
				{Min: 1, Names: []string{"y"}},
				{Min: 3, Max: 6, Names: []string{"y"}},
			}},
		},
		{
			name: "empty range",
			table: Table{Activity: "A", Default: "y", Elements: []Element{baseline("y")}, Buckets: []Bucket{
				{Min: 3, Max: 3, Names: []string{"y"}},
			}},
		},
		{
			name: "unknown bucket name",
			table: Table{Activity: "A", Default: "y", Elements: []Element{baseline("y")}, Buckets: []Bucket{
				{Min: 1, Names: []string{"z"}},
			}},
		},
		{
			name:  "duplicate element",
			table: Table{Activity: "A", Default: "y", Elements: []Element{baseline("y"), baseline("Y")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("test", []Table{tt.table}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPicker_DefaultWhenNothingEligible(t *testing.T) {
	p := NewPicker(Default(), zeroSource{})

	e, err := p.Pick(activity.DigitalDetox, 0)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if e.Name != "grass" {
		t.Errorf("picked %s, want grass", e.Name)
	}
}

func TestPicker_PicksFromEligible(t *testing.T) {
	p := NewSeededPicker(Default(), 42)
	eligible, err := Eligible(activity.Journaling, 4)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		e, err := p.Pick(activity.Journaling, 4)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		if !slices.Contains(eligible, e.Name) {
			t.Fatalf("picked %s, not in %v", e.Name, eligible)
		}
		seen[e.Name] = true
	}
	if len(seen) != len(eligible) {
		t.Errorf("reached %d of %d eligible elements", len(seen), len(eligible))
	}
}

func TestPicker_SeededIsDeterministic(t *testing.T) {
	a := NewSeededPicker(Default(), 7)
	b := NewSeededPicker(Default(), 7)

	for i := 0; i < 20; i++ {
		ea, err := a.Pick(activity.Meditation, 9)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		eb, err := b.Pick(activity.Meditation, 9)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		if ea.Name != eb.Name {
			t.Fatalf("pick %d diverged: %s vs %s", i, ea.Name, eb.Name)
		}
	}
}

func TestPicker_UnknownActivity(t *testing.T) {
	_, err := NewPicker(nil, zeroSource{}).Pick("Yoga", 3)
	if !errors.Is(err, errors.ErrUnknownActivity) {
		t.Errorf("err = %v, want UNKNOWN_ACTIVITY", err)
	}
}
