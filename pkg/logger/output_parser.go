package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// OutputLines 表示命令输出的头部和尾部行
type OutputLines struct {
	HeadLines []string `json:"head_lines"`
	TailLines []string `json:"tail_lines"`
}

// ParseOutputLines 解析命令输出，提取头部和尾部行
// maxLines: head和tail各自的最大行数
func ParseOutputLines(output string, maxLines int) OutputLines {
	if maxLines <= 0 {
		maxLines = 5
	}

	// 统一换行符处理，设备侧输出普遍是CRLF
	output = strings.ReplaceAll(output, "\r\n", "\n")
	output = strings.ReplaceAll(output, "\r", "\n")

	lines := strings.Split(output, "\n")
	totalLines := len(lines)

	var headLines, tailLines []string

	if totalLines == 0 {
		return OutputLines{}
	}

	headCount := maxLines
	if headCount > totalLines {
		headCount = totalLines
	}
	headLines = make([]string, headCount)
	copy(headLines, lines[:headCount])

	// 总行数不超过maxLines时head和tail相同
	if totalLines <= maxLines {
		tailLines = make([]string, len(headLines))
		copy(tailLines, headLines)
	} else {
		tailLines = make([]string, maxLines)
		copy(tailLines, lines[totalLines-maxLines:])
	}

	return OutputLines{
		HeadLines: headLines,
		TailLines: tailLines,
	}
}

// FormatOutputLines 格式化输出行为字符串，用于日志记录
func FormatOutputLines(lines OutputLines) string {
	var parts []string

	if len(lines.HeadLines) > 0 {
		parts = append(parts, "head-lines: ["+strings.Join(lines.HeadLines, " ⟩ ")+"]")
	}

	if len(lines.TailLines) > 0 {
		// head和tail完全相同时只显示一次
		if !areSlicesEqual(lines.HeadLines, lines.TailLines) {
			parts = append(parts, "tail-lines: ["+strings.Join(lines.TailLines, " ⟩ ")+"]")
		}
	}

	return strings.Join(parts, ", ")
}

// areSlicesEqual 比较两个字符串切片是否相等
func areSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DebugCommandOutput 在debug级别记录命令输出的head/tail-lines
func DebugCommandOutput(command string, output string, maxLines int) {
	if GetLogger().Level < logrus.DebugLevel {
		return
	}

	lines := ParseOutputLines(output, maxLines)
	if len(lines.HeadLines) == 0 && len(lines.TailLines) == 0 {
		return
	}

	Debugf("Command output [%s]: %s", command, FormatOutputLines(lines))
}
