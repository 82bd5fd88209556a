package intvm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parse parses a program: a single line of comma-separated signed
// decimal integers. Anything after the first line is ignored.
func Parse(src []byte) ([]int64, error) {
	line := string(src)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty program")
	}
	toks := strings.Split(line, ",")
	prog := make([]int64, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad program token %q", tok)
		}
		prog[i] = v
	}
	return prog, nil
}

// LoadFile reads and parses the program stored in the named file.
func LoadFile(name string) ([]int64, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	prog, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return prog, nil
}
