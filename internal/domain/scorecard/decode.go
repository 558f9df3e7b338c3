package scorecard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

var (
	rootKeys        = []string{"scorecard", "innings", "scoreCard", "scorecards"}
	endedKeys       = []string{"matchEnded", "match_ended", "isMatchComplete"}
	lineupKeys      = []string{"playingXI", "playing_xi", "lineup"}
	substituteKeys  = []string{"substitutes", "subs", "impactPlayers"}
	inningsNameKeys = []string{"inning", "innings", "name", "team"}

	battingKeys  = []string{"batting", "batsmen"}
	bowlingKeys  = []string{"bowling", "bowlers"}
	fieldingKeys = []string{"catching", "fielding"}

	batterNameKeys = []string{"batsman", "batter", "player", "name"}
	runsKeys       = []string{"r", "runs", "R"}
	ballsKeys      = []string{"b", "balls", "B"}
	foursKeys      = []string{"4s", "fours"}
	sixesKeys      = []string{"6s", "sixes"}
	dismissalKeys  = []string{"dismissal-text", "dismissal", "dismissalText", "out_desc"}

	bowlerNameKeys  = []string{"bowler", "player", "name"}
	bowledBallsKeys = []string{"balls"}
	oversKeys       = []string{"o", "overs", "O"}
	concededKeys    = []string{"r", "runs", "runs_conceded"}
	wicketKeys      = []string{"w", "wickets", "W"}
	maidenKeys      = []string{"m", "maidens", "M"}
	dotKeys         = []string{"0s", "dots", "dot_balls"}
	fielderNameKeys = []string{"catcher", "fielder", "player", "name"}
	catchKeys       = []string{"catch", "catches"}
	stumpingKeys    = []string{"stumped", "stumping", "stumpings"}
	nestedNameKeys  = []string{"name", "fullName", "longName"}
)

const (
	envelopeKey       = "data"
	overBallsPerOver  = 6
	oversDecimalScale = 10
)

// Decode parses a raw provider scorecard payload.
func Decode(raw []byte) (Scorecard, error) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return Scorecard{}, fmt.Errorf("%w: decode json: %v", ErrUnrecognizedShape, err)
	}
	return DecodeValue(root)
}

// DecodeValue walks an already-decoded JSON value.
func DecodeValue(root any) (Scorecard, error) {
	if obj, ok := root.(map[string]any); ok {
		if data, ok := obj[envelopeKey].(map[string]any); ok {
			obj = data
		}
		return decodeRoot(obj)
	}
	if list, ok := root.([]any); ok {
		innings, err := decodeInningsList(list, "$")
		if err != nil {
			return Scorecard{}, err
		}
		return Scorecard{Innings: innings}, nil
	}
	return Scorecard{}, &ShapeError{Path: "$", Keys: rootKeys}
}

func decodeRoot(obj map[string]any) (Scorecard, error) {
	rawInnings, key, ok := lookup(obj, rootKeys...)
	if !ok {
		return Scorecard{}, &ShapeError{Path: "$", Keys: rootKeys}
	}
	list, ok := rawInnings.([]any)
	if !ok {
		return Scorecard{}, &ShapeError{Path: "$." + key, Keys: []string{"[]innings"}}
	}

	innings, err := decodeInningsList(list, "$."+key)
	if err != nil {
		return Scorecard{}, err
	}

	out := Scorecard{
		Innings:     innings,
		PlayingXI:   nameList(obj, lineupKeys...),
		Substitutes: nameList(obj, substituteKeys...),
	}
	if value, _, ok := lookup(obj, endedKeys...); ok {
		out.Ended = asBool(value)
	}
	return out, nil
}

func decodeInningsList(list []any, path string) ([]Innings, error) {
	out := make([]Innings, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ShapeError{Path: fmt.Sprintf("%s[%d]", path, i), Keys: []string{"{innings}"}}
		}
		inn, err := decodeInnings(obj, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, inn)
	}
	return out, nil
}

func decodeInnings(obj map[string]any, path string) (Innings, error) {
	batting, hasBatting, err := entries(obj, path, battingKeys, decodeBatting)
	if err != nil {
		return Innings{}, err
	}
	bowling, hasBowling, err := entries(obj, path, bowlingKeys, decodeBowling)
	if err != nil {
		return Innings{}, err
	}
	fielding, hasFielding, err := entries(obj, path, fieldingKeys, decodeFielding)
	if err != nil {
		return Innings{}, err
	}
	if !hasBatting && !hasBowling && !hasFielding {
		keys := append(append(append([]string(nil), battingKeys...), bowlingKeys...), fieldingKeys...)
		return Innings{}, &ShapeError{Path: path, Keys: keys}
	}

	label := ""
	if value, _, ok := lookup(obj, inningsNameKeys...); ok {
		label = asString(value)
	}
	return Innings{Label: label, Batting: batting, Bowling: bowling, Fielding: fielding}, nil
}

func entries[T any](obj map[string]any, path string, keys []string, decode func(map[string]any, string) (T, error)) ([]T, bool, error) {
	raw, key, ok := lookup(obj, keys...)
	if !ok {
		return nil, false, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false, &ShapeError{Path: path + "." + key, Keys: []string{"[]entry"}}
	}
	out := make([]T, 0, len(list))
	for i, item := range list {
		itemPath := fmt.Sprintf("%s.%s[%d]", path, key, i)
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, true, &ShapeError{Path: itemPath, Keys: []string{"{entry}"}}
		}
		decoded, err := decode(entry, itemPath)
		if err != nil {
			return nil, true, err
		}
		out = append(out, decoded)
	}
	return out, true, nil
}

func decodeBatting(obj map[string]any, path string) (BattingEntry, error) {
	name, err := requiredName(obj, path, batterNameKeys)
	if err != nil {
		return BattingEntry{}, err
	}
	runs, err := requiredInt(obj, path, runsKeys)
	if err != nil {
		return BattingEntry{}, err
	}
	balls, err := requiredInt(obj, path, ballsKeys)
	if err != nil {
		return BattingEntry{}, err
	}

	out := BattingEntry{
		Name:  name,
		Runs:  runs,
		Balls: balls,
		Fours: optionalInt(obj, foursKeys),
		Sixes: optionalInt(obj, sixesKeys),
	}
	if value, _, ok := lookup(obj, dismissalKeys...); ok {
		out.Dismissal = asString(value)
	}
	return out, nil
}

func decodeBowling(obj map[string]any, path string) (BowlingEntry, error) {
	name, err := requiredName(obj, path, bowlerNameKeys)
	if err != nil {
		return BowlingEntry{}, err
	}

	var balls int
	if value, _, ok := lookup(obj, bowledBallsKeys...); ok {
		parsed, ok := asInt(value)
		if !ok {
			return BowlingEntry{}, &ShapeError{Path: path + ".balls", Keys: []string{"integer"}}
		}
		balls = parsed
	} else {
		value, key, ok := lookup(obj, oversKeys...)
		if !ok {
			return BowlingEntry{}, &ShapeError{Path: path, Keys: append(append([]string(nil), bowledBallsKeys...), oversKeys...)}
		}
		parsed, ok := oversToBalls(value)
		if !ok {
			return BowlingEntry{}, &ShapeError{Path: path + "." + key, Keys: []string{"overs"}}
		}
		balls = parsed
	}

	runs, err := requiredInt(obj, path, concededKeys)
	if err != nil {
		return BowlingEntry{}, err
	}
	wickets, err := requiredInt(obj, path, wicketKeys)
	if err != nil {
		return BowlingEntry{}, err
	}

	return BowlingEntry{
		Name:    name,
		Balls:   balls,
		Runs:    runs,
		Wickets: wickets,
		Maidens: optionalInt(obj, maidenKeys),
		Dots:    optionalInt(obj, dotKeys),
	}, nil
}

func decodeFielding(obj map[string]any, path string) (FieldingEntry, error) {
	name, err := requiredName(obj, path, fielderNameKeys)
	if err != nil {
		return FieldingEntry{}, err
	}
	return FieldingEntry{
		Name:      name,
		Catches:   optionalInt(obj, catchKeys),
		Stumpings: optionalInt(obj, stumpingKeys),
	}, nil
}

func lookup(obj map[string]any, keys ...string) (any, string, bool) {
	for _, key := range keys {
		value, ok := obj[key]
		if ok && value != nil {
			return value, key, true
		}
	}
	return nil, "", false
}

func requiredName(obj map[string]any, path string, keys []string) (string, error) {
	value, _, ok := lookup(obj, keys...)
	if ok {
		if name := nameOf(value); name != "" {
			return name, nil
		}
	}
	return "", &ShapeError{Path: path, Keys: keys}
}

func requiredInt(obj map[string]any, path string, keys []string) (int, error) {
	value, key, ok := lookup(obj, keys...)
	if !ok {
		return 0, &ShapeError{Path: path, Keys: keys}
	}
	parsed, ok := asInt(value)
	if !ok {
		return 0, &ShapeError{Path: path + "." + key, Keys: []string{"integer"}}
	}
	return parsed, nil
}

func optionalInt(obj map[string]any, keys []string) int {
	value, _, ok := lookup(obj, keys...)
	if !ok {
		return 0
	}
	parsed, _ := asInt(value)
	return parsed
}

func nameList(obj map[string]any, keys ...string) []string {
	value, _, ok := lookup(obj, keys...)
	if !ok {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if name := nameOf(item); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func nameOf(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		if nested, _, ok := lookup(typed, nestedNameKeys...); ok {
			return asString(nested)
		}
	}
	return ""
}

func asString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

func asInt(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" || trimmed == "-" {
			return 0, true
		}
		if v, err := strconv.Atoi(trimmed); err == nil {
			return v, true
		}
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(v), true
		}
	}
	return 0, false
}

func asBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	case float64:
		return typed != 0
	default:
		return false
	}
}

// oversToBalls converts cricket over notation (3.4 = three overs and four balls).
func oversToBalls(value any) (int, bool) {
	var overs float64
	switch typed := value.(type) {
	case float64:
		overs = typed
	case int:
		overs = float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		overs = parsed
	default:
		return 0, false
	}
	if overs < 0 {
		return 0, false
	}

	whole := math.Floor(overs)
	partial := int(math.Round((overs - whole) * oversDecimalScale))
	if partial >= overBallsPerOver {
		return 0, false
	}
	return int(whole)*overBallsPerOver + partial, true
}
