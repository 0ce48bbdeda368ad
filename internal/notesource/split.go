package notesource

import (
	"bufio"
	"io"
	"strings"
)

// SplitNotes reads a note file and returns one text per note. Notes are
// separated by lines containing only "---"; files without separators yield a
// single note. Blank blocks are dropped.
func SplitNotes(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var notes []string
	var block []string

	finishNote := func() {
		text := strings.TrimSpace(strings.Join(block, "\n"))
		if text != "" {
			notes = append(notes, text)
		}
		block = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			finishNote()
			continue
		}
		block = append(block, line)
	}
	finishNote()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}
