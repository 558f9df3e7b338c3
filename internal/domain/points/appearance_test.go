package points

import "testing"

func TestApplyAppearances(t *testing.T) {
	t.Parallel()

	base := []PlayerPoints{
		{Key: "virat kohli", Name: "Virat Kohli", Batting: 20, Total: 20},
		{Key: "axar patel", Name: "Axar Patel", Bowling: 30, Total: 30},
	}
	lineup := []string{"Virat Kohli", "virat  kohli", "Rohit Sharma", ""}
	subs := []string{"Axar Patel", "Rohit Sharma"}

	got := ApplyAppearances(base, lineup, subs, 4, 4)
	if len(got) != 3 {
		t.Fatalf("unexpected entry count: got=%d want=3", len(got))
	}

	kohli := findPoints(t, got, "virat kohli")
	if kohli.Appearance != 4 || kohli.Substitute != 0 || kohli.Total != 24 {
		t.Fatalf("unexpected lineup entry: %+v", kohli)
	}
	rohit := findPoints(t, got, "rohit sharma")
	if rohit.Appearance != 4 || rohit.Substitute != 0 || rohit.Total != 4 {
		t.Fatalf("lineup member listed as substitute should only get appearance: %+v", rohit)
	}
	axar := findPoints(t, got, "axar patel")
	if axar.Substitute != 4 || axar.Appearance != 0 || axar.Total != 34 {
		t.Fatalf("unexpected substitute entry: %+v", axar)
	}
	if got[0].Key != "axar patel" {
		t.Fatalf("expected re-sort by total, got first=%s", got[0].Key)
	}
	assertTotalsInvariant(t, got)

	if base[0].Appearance != 0 {
		t.Fatalf("input slice must not be mutated")
	}
}

func TestApplyAppearances_Reapply(t *testing.T) {
	t.Parallel()

	once := ApplyAppearances(nil, []string{"Virat Kohli"}, []string{"Axar Patel"}, 4, 4)
	twice := ApplyAppearances(once, []string{"Virat Kohli"}, []string{"Axar Patel"}, 4, 4)
	if len(once) != len(twice) {
		t.Fatalf("unexpected entry count after reapply: got=%d want=%d", len(twice), len(once))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("reapply changed entry %d: got=%+v want=%+v", i, twice[i], once[i])
		}
	}
}

func TestLineupKeys(t *testing.T) {
	t.Parallel()

	got := LineupKeys([]string{"MS Dhoni", "Mahendra Singh Dhoni", " ", "Rohit Sharma"})
	want := []string{"mahendra singh dhoni", "rohit sharma"}
	if len(got) != len(want) {
		t.Fatalf("unexpected keys: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected key at %d: got=%s want=%s", i, got[i], want[i])
		}
	}
}
