package scoresheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

const (
	// HeaderDepth 计分表表头的物理行数
	HeaderDepth = 4
	// Separator 拼接多级表头时使用的分隔符，不会出现在选手名或标题中
	Separator = "🇺🇦"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RawTable 宽表：每列一个多级表头，单元格为原始文本，空串表示缺失
type RawTable struct {
	Header [][]string
	Rows   [][]string
}

// Clone 深拷贝，转换过程只在副本上操作
func (t *RawTable) Clone() *RawTable {
	out := &RawTable{
		Header: make([][]string, len(t.Header)),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, h := range t.Header {
		out.Header[i] = append([]string(nil), h...)
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// Cell 越界返回空串（参差行按缺失处理）
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// FlattenLabel 把多级表头拼成单个列名
func FlattenLabel(levels []string) string {
	return strings.TrimSpace(strings.Join(levels, Separator))
}

// ColumnLabel 答题列表头的四个部分
type ColumnLabel struct {
	Game   string
	Player string
	Note   string
	Unused string
}

func (l ColumnLabel) Levels() []string {
	return []string{l.Game, l.Player, l.Note, l.Unused}
}

// SplitLabel 按分隔符拆回四个部分，数量不对即为表头错误
func SplitLabel(label string) (ColumnLabel, error) {
	parts := strings.Split(label, Separator)
	if len(parts) != HeaderDepth {
		return ColumnLabel{}, &DataError{Kind: ErrMalformedHeader, Column: label, Row: -1}
	}
	return ColumnLabel{Game: parts[0], Player: parts[1], Note: parts[2], Unused: parts[3]}, nil
}

// DecodeText 去掉 BOM，非 UTF-8 的导出按 cp1251 解码，最后做 NFC 规范化
func DecodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode cp1251: %w", err)
		}
		data = decoded
	}
	return norm.NFC.Bytes(data), nil
}

// ReadCSV 读取计分表导出：前四行为表头，其余为数据行
func ReadCSV(r io.Reader) (*RawTable, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := DecodeText(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < HeaderDepth {
		return nil, &DataError{
			Kind:  ErrMalformedHeader,
			Row:   -1,
			Value: fmt.Sprintf("expected %d header rows, got %d", HeaderDepth, len(records)),
		}
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	table := &RawTable{Header: make([][]string, width)}
	for col := 0; col < width; col++ {
		levels := make([]string, HeaderDepth)
		for level := 0; level < HeaderDepth; level++ {
			v := ""
			if col < len(records[level]) {
				v = strings.TrimSpace(records[level][col])
			}
			// 与常见表格库一致：空表头单元格命名为 Unnamed
			if v == "" {
				v = fmt.Sprintf("Unnamed: %d_level_%d", col, level)
			}
			levels[level] = v
		}
		table.Header[col] = levels
	}

	for _, rec := range records[HeaderDepth:] {
		row := make([]string, width)
		copy(row, rec)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
