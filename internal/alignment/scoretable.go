package alignment

import (
	"strconv"
	"strings"
)

// renderScoreTable prints the score grid with the first sequence down the
// left and the second across the top, one tab-separated row per line.
func renderScoreTable(table [][]int, first, second []byte) string {
	var sb strings.Builder

	sb.WriteString("\t")
	for _, c := range second {
		sb.WriteByte('\t')
		sb.WriteByte(c)
	}
	sb.WriteByte('\n')

	for i, row := range table {
		if i > 0 {
			sb.WriteByte(first[i-1])
		}
		for _, v := range row {
			sb.WriteByte('\t')
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
