package scoresheet

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"testing"
)

func idHeader() [][]string {
	return [][]string{
		{"Тема", "Unnamed: 0_level_1", "Unnamed: 0_level_2", "Unnamed: 0_level_3"},
		{"Питання", "Unnamed: 1_level_1", "Unnamed: 1_level_2", "Unnamed: 1_level_3"},
	}
}

func newTable(columns [][]string, rows ...[]string) *RawTable {
	return &RawTable{Header: append(idHeader(), columns...), Rows: rows}
}

func TestTransform_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		cell       string
		raw        int
		outcome    Outcome
		points     int
		gained     int
		lost       int
		symbol     string
		wantPrice  int
		wantTopic  int
		wantQID    string
		wantPlayer string
	}{
		{"correct", "1", 1, OutcomeCorrect, 10, 10, 0, SymbolCorrect, 10, 1, "1.10", "Alice"},
		{"empty cell", "", 0, OutcomeNoAnswer, 0, 0, 0, SymbolNoAnswer, 10, 1, "1.10", "Alice"},
		{"incorrect", "-1", -1, OutcomeIncorrect, -10, 0, 10, SymbolIncorrect, 10, 1, "1.10", "Alice"},
		{"float export", "1.0", 1, OutcomeCorrect, 10, 10, 0, SymbolCorrect, 10, 1, "1.10", "Alice"},
		{"nan literal", "NaN", 0, OutcomeNoAnswer, 0, 0, 0, SymbolNoAnswer, 10, 1, "1.10", "Alice"},
		{"unrecognized", "2", 2, OutcomeUnrecognized, 20, 20, 0, SymbolUnrecognized, 10, 1, "1.10", "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTable(
				[][]string{{"GameA", "Alice", "note", "x"}},
				[]string{"1. History", "10. Capitals", tt.cell},
			)

			answers, err := Transform(table, "")
			if err != nil {
				t.Fatalf("Transform returned error: %v", err)
			}
			if len(answers) != 1 {
				t.Fatalf("expected 1 answer, got %d", len(answers))
			}
			a := answers[0]
			if a.Topic != tt.wantTopic || a.Price != tt.wantPrice || a.QuestionID != tt.wantQID {
				t.Errorf("got topic=%d price=%d qid=%s", a.Topic, a.Price, a.QuestionID)
			}
			if a.Game != "GameA" || a.Player != tt.wantPlayer || a.Note != "note" {
				t.Errorf("got game=%q player=%q note=%q", a.Game, a.Player, a.Note)
			}
			if a.RawValue != tt.raw || a.Outcome != tt.outcome || a.Symbol != tt.symbol {
				t.Errorf("got raw=%d outcome=%v symbol=%s", a.RawValue, a.Outcome, a.Symbol)
			}
			if a.Points != tt.points || a.PointsGained != tt.gained || a.PointsLost != tt.lost {
				t.Errorf("got points=%d gained=%d lost=%d", a.Points, a.PointsGained, a.PointsLost)
			}
			if a.TopicLabel != "1. History" || a.QuestionLabel != "10. Capitals" {
				t.Errorf("labels not kept: %q %q", a.TopicLabel, a.QuestionLabel)
			}
			if a.Round != "" || a.GameRoundID != "" {
				t.Errorf("round should be empty, got %q %q", a.Round, a.GameRoundID)
			}
		})
	}
}

func TestTransform_DropsBlankTopicRows(t *testing.T) {
	table := newTable(
		[][]string{{"GameA", "Alice", "n", "x"}, {"GameA", "Bob", "n", "x"}},
		[]string{"1. History", "10. Capitals", "1", "-1"},
		[]string{"", "", "", ""},
		[]string{"  ", "spacer", "", ""},
		[]string{"2. Music", "20. Bands", "", "1"},
	)

	answers, err := Transform(table, "")
	if err != nil {
		t.Fatal(err)
	}
	// 2 个有效行 × 2 个选手
	if len(answers) != 4 {
		t.Fatalf("expected 4 answers, got %d", len(answers))
	}

	// 按列展开：先 Alice 的所有行，再 Bob 的
	want := []struct{ player, qid string }{
		{"Alice", "1.10"}, {"Alice", "2.20"}, {"Bob", "1.10"}, {"Bob", "2.20"},
	}
	for i, w := range want {
		if answers[i].Player != w.player || answers[i].QuestionID != w.qid {
			t.Errorf("row %d: got %s/%s, want %s/%s", i, answers[i].Player, answers[i].QuestionID, w.player, w.qid)
		}
	}
}

func TestTransform_Round(t *testing.T) {
	table := newTable(
		[][]string{{"Бій 1", "Alice", "n", "x"}},
		[]string{"3. Sport", "30. Football", "1"},
	)
	answers, err := Transform(table, "4")
	if err != nil {
		t.Fatal(err)
	}
	if answers[0].Round != "4" || answers[0].GameRoundID != "4.Бій 1" {
		t.Errorf("got round=%q game_round_id=%q", answers[0].Round, answers[0].GameRoundID)
	}
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   *RawTable
		wantErr error
		column  string
	}{
		{
			name: "label with three parts",
			table: newTable(
				[][]string{{"GameA", "Alice", "note"}},
				[]string{"1. History", "10. Capitals", "1"},
			),
			wantErr: ErrMalformedHeader,
			column:  "GameA" + Separator + "Alice" + Separator + "note",
		},
		{
			name: "topic without number",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"History", "10. Capitals", "1"},
			),
			wantErr: ErrInvalidNumericPrefix,
			column:  FlattenLabel(idHeader()[0]),
		},
		{
			name: "price without number",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"1. History", "ten. Capitals", "1"},
			),
			wantErr: ErrInvalidNumericPrefix,
			column:  FlattenLabel(idHeader()[1]),
		},
		{
			name: "text answer",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"1. History", "10. Capitals", "yes"},
			),
			wantErr: ErrInvalidAnswerValue,
		},
		{
			name: "fractional answer",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"1. History", "10. Capitals", "0.5"},
			),
			wantErr: ErrInvalidAnswerValue,
		},
		{
			name: "answer beyond int32",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"1. History", "10. Capitals", "9223372036854775807"},
			),
			wantErr: ErrInvalidAnswerValue,
		},
		{
			name: "huge float answer",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"1. History", "10. Capitals", "1e300"},
			),
			wantErr: ErrInvalidAnswerValue,
		},
		{
			name: "price beyond int32",
			table: newTable(
				[][]string{{"GameA", "Alice", "n", "x"}},
				[]string{"1. History", "4294967296. Capitals", "1"},
			),
			wantErr: ErrInvalidNumericPrefix,
			column:  FlattenLabel(idHeader()[1]),
		},
		{
			name:    "no answer columns",
			table:   &RawTable{Header: idHeader()},
			wantErr: ErrEmptyTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform(tt.table, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !IsDataError(err) {
				t.Errorf("expected data error, got %T", err)
			}
			var de *DataError
			if tt.column != "" {
				if !errors.As(err, &de) {
					t.Fatalf("expected *DataError, got %T", err)
				}
				if de.Column != tt.column {
					t.Errorf("expected column %q, got %q", tt.column, de.Column)
				}
			}
		})
	}
}

func TestTransform_DoesNotMutateInputAndIsIdempotent(t *testing.T) {
	table := newTable(
		[][]string{{"GameA", "Alice", "n", "x"}, {"GameB", "Bob", "n", "x"}},
		[]string{"1. History", "10. Capitals", "1", ""},
		[]string{"", "", "", ""},
		[]string{"2. Music", "20. Bands", "-1", "1"},
	)
	before := table.Clone()

	first, err := Transform(table, "1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Transform(table, "1")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(table, before) {
		t.Error("input table was modified")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Transform is not idempotent")
	}
}

func TestTransform_DerivedFieldInvariants(t *testing.T) {
	values := []string{"1", "0", "-1", "", "1", "-1"}
	var columns [][]string
	row1 := []string{"1. History", "10. Capitals"}
	row2 := []string{"12. Science", "50. Atoms"}
	for i, v := range values {
		columns = append(columns, []string{"Game" + strconv.Itoa(i%2), "P" + strconv.Itoa(i), "n", "x"})
		row1 = append(row1, v)
		row2 = append(row2, values[len(values)-1-i])
	}

	answers, err := Transform(newTable(columns, row1, row2), "")
	if err != nil {
		t.Fatal(err)
	}

	qidPattern := regexp.MustCompile(`^-?\d+\.-?\d+$`)
	for _, a := range answers {
		if !qidPattern.MatchString(a.QuestionID) {
			t.Errorf("question id %q does not match pattern", a.QuestionID)
		}
		if a.QuestionID != QuestionID(a.Topic, a.Price) {
			t.Errorf("question id %q not reproducible from %d/%d", a.QuestionID, a.Topic, a.Price)
		}
		if a.Points != a.Price*a.RawValue {
			t.Errorf("points %d != %d*%d", a.Points, a.Price, a.RawValue)
		}
		if a.RawValue == 0 && (a.PointsGained != 0 || a.PointsLost != 0) {
			t.Errorf("no-answer row has gained=%d lost=%d", a.PointsGained, a.PointsLost)
		}
		if a.Points != 0 && a.PointsGained+(-a.PointsLost) != a.Points {
			t.Errorf("gained %d - lost %d != points %d", a.PointsGained, a.PointsLost, a.Points)
		}
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"10. Capitals", 10, false},
		{"3.Sport", 3, false},
		{" 7 . spaced", 7, false},
		{"42", 42, false},
		{"History", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePrefix(tt.label)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidNumericPrefix) {
				t.Errorf("ParsePrefix(%q): expected ErrInvalidNumericPrefix, got %v", tt.label, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePrefix(%q) = %d, %v; want %d", tt.label, got, err, tt.want)
		}
	}
}

func TestClassifyValue(t *testing.T) {
	cases := map[int]Outcome{
		1:  OutcomeCorrect,
		0:  OutcomeNoAnswer,
		-1: OutcomeIncorrect,
		2:  OutcomeUnrecognized,
		-5: OutcomeUnrecognized,
	}
	for v, want := range cases {
		if got := ClassifyValue(v); got != want {
			t.Errorf("ClassifyValue(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []Outcome{OutcomeCorrect, OutcomeIncorrect, OutcomeNoAnswer, OutcomeUnrecognized} {
		text, err := o.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Outcome
		if err := back.UnmarshalText(text); err != nil || back != o {
			t.Errorf("outcome %v: got %v, %v", o, back, err)
		}
		var fromSymbol Outcome
		if err := fromSymbol.UnmarshalText([]byte(o.Symbol())); err != nil || fromSymbol != o {
			t.Errorf("symbol %s: got %v, %v", o.Symbol(), fromSymbol, err)
		}
	}
}
