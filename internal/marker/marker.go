// Package marker implements the line grammar shared by every component
// that touches fixture source text.
//
// Accepted forms:
//
//	marker:      // <AA><digits>[a-z]: <description>
//	declaration: func <name>(            (marker extraction)
//	             func (recv) <name>(     (declaration scanning only)
//	sentinel:    //vt:helper
//
// A marker is recognized only when the declaration header is on the
// immediately following line; anything else orphans the marker, which is
// skipped rather than reported as an error.
package marker

import "regexp"

// HelperSentinel marks a declaration that is not a tracked registry entry.
const HelperSentinel = "//vt:helper"

var (
	markerRe = regexp.MustCompile(`^//\s*([A-Z]{2})(\d+[a-z]?):\s*(.+)$`)
	funcRe   = regexp.MustCompile(`^func\s+(\w+)\s*\(`)
	declRe   = regexp.MustCompile(`^func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`)
)

// Record is one extracted marker. Transient: produced fresh on every scan
// and consumed immediately by unification.
type Record struct {
	Name        string // declared function name
	Prefix      string // two-letter pattern prefix, e.g. "GO"
	Number      string // digits plus optional sub-variant letter, e.g. "01b"
	Code        string // Prefix + Number
	Description string
	Line        int // 0-based line of the marker comment
}

// Parse scans lines and yields a record for every marker immediately
// followed by a plain function declaration, preserving file order.
func Parse(lines []string) []Record {
	var out []Record
	for i, line := range lines {
		m := markerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if i+1 >= len(lines) {
			continue
		}
		fn := funcRe.FindStringSubmatch(lines[i+1])
		if fn == nil {
			continue
		}
		out = append(out, Record{
			Name:        fn[1],
			Prefix:      m[1],
			Number:      m[2],
			Code:        m[1] + m[2],
			Description: m[3],
			Line:        i,
		})
	}
	return out
}

// Decl is a declaration header found while scanning a file.
type Decl struct {
	Name string
	Line int // 0-based line of the header
}

// Declarations lists every function or method declaration header in file
// order, receivers included.
func Declarations(lines []string) []Decl {
	var out []Decl
	for i, line := range lines {
		if m := declRe.FindStringSubmatch(line); m != nil {
			out = append(out, Decl{Name: m[1], Line: i})
		}
	}
	return out
}

// MatchDecl extracts the declared name from a single header line.
func MatchDecl(line string) (string, bool) {
	m := declRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsMarker reports whether a line is a legacy pattern marker.
func IsMarker(line string) bool { return markerRe.MatchString(line) }
