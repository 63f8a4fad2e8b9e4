package asm

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/symtab"
	"github.com/mujjingun/sicxe/toolerr"
)

// Result is everything a completed assemble run produces: the two output
// paths it wrote, the object text and listing text (for callers that want
// them without re-reading the files), and the populated symbol table for
// the `symbol` listing command.
type Result struct {
	ObjPath  string
	LstPath  string
	Object   []string
	Listing  []string
	Symbols  *symtab.Table
	ProgName string
}

// readLines reads a source file into a slice of lines. A file with no
// trailing newline on its last line is accepted; a line that never
// terminates (scanner token too long) is returned as bufio's own error,
// which the caller reports as an IOError like any other read failure.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line too long or unreadable: %w", err)
	}
	return lines, nil
}

// Assemble runs the two-pass assembler over the source at path, writing
// "<path-without-ext>.obj" and "<path-without-ext>.lst" next to it. Pass
// 1's complete symbol table is always available to pass 2, text records
// are emitted in increasing address order, and modification records only
// appear at END after all text records. Neither output file is written
// unless both passes succeed; a failure while writing the listing leaves
// the already-written object file behind.
func Assemble(path string, table *opcode.Table) (*Result, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.IO, path, "reading source", err)
	}

	p1, err := pass1(lines, table)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Parse, path, "pass 1", err)
	}

	out, err := pass2(p1)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Semantic, path, "pass 2", err)
	}

	base := strings.TrimSuffix(path, fileExt(path))
	objPath := base + ".obj"
	lstPath := base + ".lst"

	if err := writeLines(objPath, out.Object); err != nil {
		return nil, toolerr.Wrap(toolerr.IO, objPath, "writing object file", err)
	}
	if err := writeLines(lstPath, out.Listing); err != nil {
		return nil, toolerr.Wrap(toolerr.IO, lstPath, "writing listing", err)
	}

	return &Result{
		ObjPath:  objPath,
		LstPath:  lstPath,
		Object:   out.Object,
		Listing:  out.Listing,
		Symbols:  p1.Symbols,
		ProgName: p1.ProgName,
	}, nil
}

func fileExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l); err != nil {
			return err
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
