package syncer

import (
	"regexp"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/marker"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

// MarkHelpers inserts the helper sentinel directly above every
// declaration the registry does not track in this file. Declarations
// already marked are left alone.
func MarkHelpers(sf scanner.SourceFile, tracked map[string]Tracked) (scanner.SourceFile, int) {
	insert := make(map[int]bool)
	for _, d := range marker.Declarations(sf.Lines) {
		if _, ok := tracked[d.Name]; ok {
			continue
		}
		if d.Line > 0 && sf.Lines[d.Line-1] == marker.HelperSentinel {
			continue
		}
		insert[d.Line] = true
	}

	if len(insert) == 0 {
		return sf, 0
	}
	out := make([]string, 0, len(sf.Lines)+len(insert))
	for i, line := range sf.Lines {
		if insert[i] {
			out = append(out, marker.HelperSentinel)
		}
		out = append(out, line)
	}
	sf.Lines = out
	return sf, len(insert)
}

// UnmarkHelpers removes the sentinel from the comment block above every
// declaration the registry does track. A tracked function is a registry
// entry, not a helper; a stale sentinel above it lies.
func UnmarkHelpers(sf scanner.SourceFile, tracked map[string]Tracked) (scanner.SourceFile, int) {
	remove := make(map[int]bool)
	for _, d := range marker.Declarations(sf.Lines) {
		if _, ok := tracked[d.Name]; !ok {
			continue
		}
		for i := d.Line - 1; i >= 0 && isComment(sf.Lines[i]); i-- {
			if sf.Lines[i] == marker.HelperSentinel {
				remove[i] = true
			}
		}
	}

	if len(remove) == 0 {
		return sf, 0
	}
	out := make([]string, 0, len(sf.Lines)-len(remove))
	for i, line := range sf.Lines {
		if remove[i] {
			continue
		}
		out = append(out, line)
	}
	sf.Lines = out
	return sf, len(remove)
}

// StripMarkers deletes retired short-code marker comment lines. The
// prefixes are the layout's two-letter codes; "pattern" covers the
// transitional long form.
func StripMarkers(sf scanner.SourceFile, prefixes []string) (scanner.SourceFile, int) {
	alts := make([]string, 0, len(prefixes)+1)
	for _, p := range prefixes {
		alts = append(alts, regexp.QuoteMeta(p))
	}
	alts = append(alts, "pattern")
	re := regexp.MustCompile(`^//\s*(?:` + strings.Join(alts, "|") + `)\d+[a-z]?:`)

	var out []string
	removed := 0
	for _, line := range sf.Lines {
		if re.MatchString(line) {
			removed++
			continue
		}
		out = append(out, line)
	}
	sf.Lines = out
	return sf, removed
}
