// Package loader implements the linking loader: it parses 1-3 object
// files, lays out their control sections end to end in the shared memory
// image starting at a program address, resolves external references via
// modification records, seeds the PC from the last "E" record
// encountered, and reports a link map.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/mujjingun/sicxe/mem"
	"github.com/mujjingun/sicxe/objfmt"
	"github.com/mujjingun/sicxe/symtab"
	"github.com/mujjingun/sicxe/toolerr"
)

// MaxFiles is the largest number of object files one invocation accepts.
const MaxFiles = 3

// placed is one section together with the address it was laid out at.
type placed struct {
	sec    *objfmt.Section
	csaddr uint32
}

// LinkMapEntry is one row of the printed link map: either a section
// header row or an external-definition row.
type LinkMapEntry struct {
	Name   string
	Addr   uint32
	Length uint32 // zero for an external-definition row
	IsDef  bool
}

// Result is everything one loader invocation produces.
type Result struct {
	Symbols    *symtab.Table
	Entry      uint32
	HasEntry   bool
	LinkMap    []LinkMapEntry
	TotalBytes uint32
}

// Load reads paths (1-3 object files) and links them into img starting at
// progAddr. The loader's symbol table and parsed sections are scoped to
// this call and released before returning -- in Go that is simply
// letting them fall out of scope once Load returns.
func Load(paths []string, progAddr uint32, img *mem.Image) (*Result, error) {
	if len(paths) == 0 {
		return nil, toolerr.New(toolerr.Usage, "loader", "no object files given")
	}
	if len(paths) > MaxFiles {
		return nil, toolerr.New(toolerr.Usage, "loader", fmt.Sprintf("too many object files: got %d, max %d", len(paths), MaxFiles))
	}

	sections := make([]*objfmt.Section, 0, len(paths))
	for _, p := range paths {
		sec, err := parseFile(p)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}

	syms := symtab.New()
	placements, err := pass1(sections, progAddr, syms, img)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Semantic, "loader", "laying out control sections", err)
	}

	res, err := pass2(placements, syms, img)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Runtime, "loader", "applying modification records", err)
	}
	res.Symbols = syms
	return res, nil
}

func parseFile(path string) (*objfmt.Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.IO, path, "opening object file", err)
	}
	defer f.Close()
	sec, err := objfmt.ParseSection(f)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Parse, path, "parsing object file", err)
	}
	return sec, nil
}

// pass1 inserts each section's name and external definitions into the
// shared symbol table at their laid-out addresses, advancing csaddr by
// each section's length.
func pass1(sections []*objfmt.Section, progAddr uint32, syms *symtab.Table, img *mem.Image) ([]placed, error) {
	csaddr := progAddr
	out := make([]placed, 0, len(sections))

	for _, sec := range sections {
		if uint64(csaddr)+uint64(sec.Length) > mem.Size {
			return nil, fmt.Errorf("loader: section %s at %06X (length %06X) overflows memory image", sec.Name, csaddr, sec.Length)
		}

		if !syms.Insert(strings.ToUpper(sec.Name), csaddr) {
			return nil, fmt.Errorf("loader: section %s: duplicate section name", sec.Name)
		}

		for _, def := range sec.ExtDefs {
			if def.Offset+3 > sec.Length && def.Offset+4 > sec.Length {
				return nil, fmt.Errorf("loader: section %s: external definition %s at offset %06X exceeds section length %06X", sec.Name, def.Name, def.Offset, sec.Length)
			}
			if !syms.Insert(strings.ToUpper(def.Name), csaddr+def.Offset) {
				return nil, fmt.Errorf("loader: section %s: duplicate external definition %s", sec.Name, def.Name)
			}
		}

		out = append(out, placed{sec: sec, csaddr: csaddr})
		csaddr += sec.Length
	}
	return out, nil
}

// pass2 copies text records into the image, applies modification records
// against the shared symbol table, and seeds PC from the last "E" record
// encountered.
func pass2(placements []placed, syms *symtab.Table, img *mem.Image) (*Result, error) {
	res := &Result{}

	for _, p := range placements {
		sec := p.sec
		for _, t := range sec.Text {
			if err := img.WriteBytes(p.csaddr+t.Addr, t.Bytes); err != nil {
				return nil, fmt.Errorf("loader: section %s: text record at %06X: %w", sec.Name, t.Addr, err)
			}
		}

		for _, m := range sec.Mods {
			if err := applyMod(sec, p.csaddr, m, syms, img); err != nil {
				return nil, fmt.Errorf("loader: section %s: %w", sec.Name, err)
			}
		}

		res.LinkMap = append(res.LinkMap, LinkMapEntry{Name: sec.Name, Addr: p.csaddr, Length: sec.Length, IsDef: false})
		for _, def := range sec.ExtDefs {
			res.LinkMap = append(res.LinkMap, LinkMapEntry{Name: def.Name, Addr: p.csaddr + def.Offset, IsDef: true})
		}
		res.TotalBytes += sec.Length

		if sec.HasEntry {
			res.Entry = p.csaddr + sec.Entry
			res.HasEntry = true
		}
	}
	return res, nil
}

// applyMod applies one modification record: resolve the referenced
// symbol, then add or subtract it into the field at the record's address.
func applyMod(sec *objfmt.Section, csaddr uint32, m objfmt.ModRecord, syms *symtab.Table, img *mem.Image) error {
	fieldAddr := csaddr + m.Addr
	current, err := img.Read24(fieldAddr)
	if err != nil {
		return fmt.Errorf("modification record at %06X: %w", m.Addr, err)
	}

	refName, err := sec.RefName(m.RefIndex)
	if err != nil {
		return err
	}

	var resolved uint32
	if m.RefIndex == 1 {
		resolved = csaddr
	} else {
		v, ok := syms.Find(strings.ToUpper(refName))
		if !ok {
			return fmt.Errorf("modification record at %06X: undefined reference %q", m.Addr, refName)
		}
		resolved = v
	}

	var updated uint32
	switch m.Sign {
	case objfmt.Add:
		updated = current + resolved
	case objfmt.Subtract:
		updated = current - resolved
	default:
		return fmt.Errorf("modification record at %06X: invalid sign %q", m.Addr, string(m.Sign))
	}

	return img.Write24(fieldAddr, updated&0xFFFFFF)
}

// FormatLinkMap renders a Result's link map: one header row per section
// (name, address, length), one row per external definition (name,
// address), and a trailing total-length line.
func FormatLinkMap(res *Result) []string {
	var lines []string
	for _, e := range res.LinkMap {
		if e.IsDef {
			lines = append(lines, fmt.Sprintf("\t%-6s %06X", e.Name, e.Addr))
		} else {
			lines = append(lines, fmt.Sprintf("%-6s %06X %06X", e.Name, e.Addr, e.Length))
		}
	}
	lines = append(lines, fmt.Sprintf("total length %06X", res.TotalBytes))
	return lines
}
