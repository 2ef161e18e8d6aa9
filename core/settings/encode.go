package settings

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-ini/ini"
)

// countingWriter tracks bytes written through a bufio.Writer for io.WriterTo.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// encode writes file in the layout Python's configparser reads back: "key = value"
// without column alignment, values verbatim, multiline values as indented
// continuation lines and comments kept as written.
func encode(w io.Writer, file *ini.File) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	first := true
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 && sec.Comment == "" {
			continue
		}
		if !first {
			bw.WriteString("\n")
		}
		first = false

		writeComment(bw, sec.Comment)
		bw.WriteString("[" + sec.Name() + "]\n")
		for _, key := range sec.Keys() {
			writeComment(bw, key.Comment)
			bw.WriteString(key.Name() + " = " + continuation(key.Value()) + "\n")
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func writeComment(bw *bufio.Writer, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimRight(line, "\r\t ")
		if line == "" {
			continue
		}
		if line[0] != '#' && line[0] != ';' {
			line = "; " + line
		}
		bw.WriteString(line + "\n")
	}
}

// continuation indents every line after the first so the parser folds them back into
// one value. Lines already indented are kept as read.
func continuation(value string) string {
	if !strings.Contains(value, "\n") {
		return value
	}
	lines := strings.Split(value, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" || (lines[i][0] != ' ' && lines[i][0] != '\t') {
			lines[i] = "\t" + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
