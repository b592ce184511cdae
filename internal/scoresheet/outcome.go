package scoresheet

import "fmt"

// Outcome 单个选手对单个问题的作答结果
type Outcome int

const (
	// OutcomeUnrecognized 取值不在 {1, 0, -1} 内
	OutcomeUnrecognized Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
	OutcomeNoAnswer
)

const (
	SymbolCorrect      = "✅"
	SymbolIncorrect    = "❌"
	SymbolNoAnswer     = "⚪️"
	SymbolUnrecognized = "🤷🏼"
)

// ClassifyValue 将原始单元格数值映射为作答结果
func ClassifyValue(v int) Outcome {
	switch v {
	case 1:
		return OutcomeCorrect
	case 0:
		return OutcomeNoAnswer
	case -1:
		return OutcomeIncorrect
	default:
		return OutcomeUnrecognized
	}
}

// Symbol 返回看板上显示的符号
func (o Outcome) Symbol() string {
	switch o {
	case OutcomeCorrect:
		return SymbolCorrect
	case OutcomeIncorrect:
		return SymbolIncorrect
	case OutcomeNoAnswer:
		return SymbolNoAnswer
	default:
		return SymbolUnrecognized
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeNoAnswer:
		return "no_answer"
	default:
		return "unrecognized"
	}
}

// Attempted 只有答对和答错计入选手得分
func (o Outcome) Attempted() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "correct", SymbolCorrect:
		*o = OutcomeCorrect
	case "incorrect", SymbolIncorrect:
		*o = OutcomeIncorrect
	case "no_answer", SymbolNoAnswer:
		*o = OutcomeNoAnswer
	case "unrecognized", SymbolUnrecognized:
		*o = OutcomeUnrecognized
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}
