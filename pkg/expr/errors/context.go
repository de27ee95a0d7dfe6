package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ExtractContext reads the file named by location and returns the lines
// around it, with the offending line marked and a caret under its column.
func ExtractContext(location Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	file, err := os.Open(location.File)
	if err != nil {
		return ""
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ""
	}

	return contextFromLines(lines, location, contextLines)
}

// ExtractContextBytes is ExtractContext for in-memory sources.
func ExtractContextBytes(data []byte, location Location, contextLines int) string {
	if location.Line <= 0 {
		return ""
	}
	return contextFromLines(strings.Split(string(data), "\n"), location, contextLines)
}

func contextFromLines(lines []string, location Location, contextLines int) string {
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := errorLine - contextLines
	endLine := errorLine + contextLines
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))

		if i == errorLine && location.Column > 0 {
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", location.Column-1)))
		}
	}

	return sb.String()
}

// AddContextToError fills err.Context from the file it points at, showing
// two lines either side.
func AddContextToError(err *Error) *Error {
	if err.Location.IsValid() && err.Context == "" {
		err.Context = ExtractContext(err.Location, 2)
	}
	return err
}
