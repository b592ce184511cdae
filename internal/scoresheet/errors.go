package scoresheet

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader      = errors.New("malformed column header")
	ErrInvalidNumericPrefix = errors.New("invalid numeric prefix")
	ErrInvalidAnswerValue   = errors.New("invalid answer value")
	ErrEmptyGroup           = errors.New("group has no distinct players")
	ErrEmptyTable           = errors.New("table needs topic, question and at least one answer column")
)

// DataError 输入数据错误，Kind 为上面的哨兵错误之一
type DataError struct {
	Kind   error
	Column string
	Row    int // 数据行号（从 0 开始），-1 表示与行无关
	Value  string
}

func (e *DataError) Error() string {
	msg := e.Kind.Error()
	if e.Column != "" {
		msg += fmt.Sprintf(" in column %q", e.Column)
	}
	if e.Row >= 0 {
		msg += fmt.Sprintf(" at row %d", e.Row)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(": %q", e.Value)
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Kind
}

// IsDataError 判断是否为输入数据问题（而非系统故障）
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de) || errors.Is(err, ErrEmptyTable)
}

// ErrorKind 返回用于指标标签的错误类别
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrInvalidNumericPrefix):
		return "invalid_numeric_prefix"
	case errors.Is(err, ErrInvalidAnswerValue):
		return "invalid_answer_value"
	case errors.Is(err, ErrEmptyGroup):
		return "empty_group"
	case errors.Is(err, ErrEmptyTable):
		return "empty_table"
	default:
		return "other"
	}
}
