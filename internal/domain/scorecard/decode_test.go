package scorecard

import (
	"errors"
	"testing"
)

const cricapiStyle = `{
  "status": "success",
  "data": {
    "id": "m-1",
    "matchEnded": true,
    "playingXI": [{"name": "Virat Kohli"}, "Rohit Sharma"],
    "substitutes": ["Axar Patel"],
    "scorecard": [
      {
        "inning": "India Inning 1",
        "batting": [
          {"batsman": {"id": "p1", "name": "Virat Kohli"}, "dismissal-text": "c Smith b Starc", "r": 50, "b": 25, "4s": 4, "6s": 2},
          {"batsman": {"id": "p2", "name": "Rohit Sharma"}, "dismissal-text": "not out", "r": "12", "b": "10"}
        ],
        "bowling": [
          {"bowler": {"name": "Mitchell Starc"}, "o": 3.4, "m": 0, "r": 30, "w": 1, "0s": 7}
        ],
        "catching": [
          {"catcher": {"name": "Steve Smith"}, "catch": 1, "stumped": 0}
        ]
      }
    ]
  }
}`

const alternateStyle = `{
  "innings": [
    {
      "name": "AUS",
      "batsmen": [{"batter": "Travis Head", "runs": 0, "balls": 2, "dismissal": "lbw b Bumrah"}],
      "bowlers": [{"player": "Jasprit Bumrah", "balls": 24, "maidens": 1, "runs_conceded": 10, "wickets": 3, "dots": 15}],
      "fielding": [{"fielder": "Rishabh Pant", "catches": 2, "stumpings": 1}]
    }
  ],
  "match_ended": "true"
}`

func TestDecode_CricAPIShape(t *testing.T) {
	t.Parallel()

	card, err := Decode([]byte(cricapiStyle))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !card.Ended {
		t.Fatalf("expected ended flag from root indicator")
	}
	if len(card.Innings) != 1 {
		t.Fatalf("unexpected innings count: got=%d want=1", len(card.Innings))
	}
	inn := card.Innings[0]
	if inn.Label != "India Inning 1" {
		t.Fatalf("unexpected innings label: %q", inn.Label)
	}
	if len(inn.Batting) != 2 {
		t.Fatalf("unexpected batting count: got=%d want=2", len(inn.Batting))
	}
	kohli := inn.Batting[0]
	if kohli.Name != "Virat Kohli" || kohli.Runs != 50 || kohli.Balls != 25 || kohli.Fours != 4 || kohli.Sixes != 2 {
		t.Fatalf("unexpected batting entry: %+v", kohli)
	}
	if !kohli.Dismissed() {
		t.Fatalf("expected kohli dismissed")
	}
	if inn.Batting[1].Runs != 12 || inn.Batting[1].Dismissed() {
		t.Fatalf("unexpected string-number batting entry: %+v", inn.Batting[1])
	}
	starc := inn.Bowling[0]
	if starc.Balls != 22 || starc.Runs != 30 || starc.Wickets != 1 || starc.Dots != 7 {
		t.Fatalf("unexpected bowling entry: %+v", starc)
	}
	if inn.Fielding[0].Name != "Steve Smith" || inn.Fielding[0].Catches != 1 {
		t.Fatalf("unexpected fielding entry: %+v", inn.Fielding[0])
	}
	if len(card.PlayingXI) != 2 || card.PlayingXI[0] != "Virat Kohli" {
		t.Fatalf("unexpected playing xi: %v", card.PlayingXI)
	}
	if len(card.Substitutes) != 1 || card.Substitutes[0] != "Axar Patel" {
		t.Fatalf("unexpected substitutes: %v", card.Substitutes)
	}
}

func TestDecode_AlternateKeyShape(t *testing.T) {
	t.Parallel()

	card, err := Decode([]byte(alternateStyle))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !card.Ended {
		t.Fatalf("expected ended flag from string indicator")
	}
	inn := card.Innings[0]
	if inn.Batting[0].Name != "Travis Head" || !inn.Batting[0].Dismissed() {
		t.Fatalf("unexpected batting entry: %+v", inn.Batting[0])
	}
	bowler := inn.Bowling[0]
	if bowler.Balls != 24 || bowler.Maidens != 1 || bowler.Runs != 10 || bowler.Wickets != 3 || bowler.Dots != 15 {
		t.Fatalf("unexpected bowling entry: %+v", bowler)
	}
	if inn.Fielding[0].Stumpings != 1 || inn.Fielding[0].Catches != 2 {
		t.Fatalf("unexpected fielding entry: %+v", inn.Fielding[0])
	}
}

func TestDecode_UnrecognizedShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		path    string
	}{
		{name: "no innings root", payload: `{"data":{"summary":[]}}`, path: "$"},
		{name: "innings not a list", payload: `{"scorecard":{"batting":[]}}`, path: "$.scorecard"},
		{name: "innings without sections", payload: `{"scorecard":[{"inning":"x"}]}`, path: "$.scorecard[0]"},
		{name: "batter without runs", payload: `{"scorecard":[{"batting":[{"batsman":"A","b":3}]}]}`, path: "$.scorecard[0].batting[0]"},
		{name: "bowler without overs", payload: `{"scorecard":[{"bowling":[{"bowler":"B","r":3,"w":0}]}]}`, path: "$.scorecard[0].bowling[0]"},
		{name: "bowler invalid overs", payload: `{"scorecard":[{"bowling":[{"bowler":"B","o":3.7,"r":3,"w":0}]}]}`, path: "$.scorecard[0].bowling[0].o"},
		{name: "fielder without name", payload: `{"scorecard":[{"catching":[{"catch":1}]}]}`, path: "$.scorecard[0].catching[0]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tc.payload))
			if !errors.Is(err, ErrUnrecognizedShape) {
				t.Fatalf("expected ErrUnrecognizedShape, got %v", err)
			}
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected *ShapeError, got %T", err)
			}
			if shapeErr.Path != tc.path {
				t.Fatalf("unexpected path: got=%s want=%s", shapeErr.Path, tc.path)
			}
		})
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{`)); !errors.Is(err, ErrUnrecognizedShape) {
		t.Fatalf("expected ErrUnrecognizedShape for invalid json, got %v", err)
	}
}

func TestOversToBalls(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{in: 4.0, want: 24, ok: true},
		{in: 3.4, want: 22, ok: true},
		{in: 0.1, want: 1, ok: true},
		{in: "2.5", want: 17, ok: true},
		{in: 2.6, ok: false},
		{in: -1.0, ok: false},
		{in: true, ok: false},
	}
	for _, tc := range cases {
		got, ok := oversToBalls(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("unexpected balls for %v: got=%d,%v want=%d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestScorecardNames(t *testing.T) {
	t.Parallel()

	card, err := Decode([]byte(cricapiStyle))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	names := card.Names()
	want := []string{"Virat Kohli", "Rohit Sharma", "Mitchell Starc", "Steve Smith"}
	if len(names) != len(want) {
		t.Fatalf("unexpected names: got=%v want=%v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected name at %d: got=%s want=%s", i, names[i], want[i])
		}
	}
}
