package scoresheet

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// QuestionOrder 问题编号的排序方式
type QuestionOrder string

const (
	// OrderLexicographic 按字符串比较，"10.1" 排在 "2.1" 之前
	OrderLexicographic QuestionOrder = "lexicographic"
	// OrderNumeric 先按主题号再按分值
	OrderNumeric QuestionOrder = "numeric"
)

var ErrUnknownQuestionOrder = errors.New("unknown question order")

// ParseQuestionOrder 空串返回默认的字符串排序
func ParseQuestionOrder(s string) (QuestionOrder, error) {
	switch QuestionOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderLexicographic:
		return OrderLexicographic, nil
	case OrderNumeric:
		return OrderNumeric, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownQuestionOrder, s)
	}
}

// Less 比较两个 "topic.price" 编号
func (o QuestionOrder) Less(a, b string) bool {
	if o != OrderNumeric {
		return a < b
	}
	at, ap, aok := splitQuestionID(a)
	bt, bp, bok := splitQuestionID(b)
	if !aok || !bok {
		return a < b
	}
	if at != bt {
		return at < bt
	}
	return ap < bp
}

// Sort 原地排序问题编号
func (o QuestionOrder) Sort(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return o.Less(ids[i], ids[j]) })
}

func splitQuestionID(id string) (topic, price int, ok bool) {
	t, p, found := strings.Cut(id, ".")
	if !found {
		return 0, 0, false
	}
	topic, err1 := strconv.Atoi(t)
	price, err2 := strconv.Atoi(p)
	return topic, price, err1 == nil && err2 == nil
}
