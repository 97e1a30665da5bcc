// package matcher picks the source PDF belonging to a part from a song folder's files.
//
// Matching is by file name only. Each of the part's terms (display name, instrument, abbreviations) is tried in order,
// and the first term contained in exactly one PDF name wins. A term found in several files is treated like a term found in none:
// the matcher never guesses between equally plausible files.
package matcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TermResult records the candidates one term selected.
type TermResult struct {
	Term       string
	Candidates []string
}

// Result is the outcome of resolving one part.
type Result struct {
	Path  string       // Chosen file, empty when nothing matched
	Term  string       // Term that selected Path
	Trace []TermResult // Every term tried, in priority order
}

// Matched reports whether a file was chosen.
func (r Result) Matched() bool {
	return r.Path != ""
}

// Reason describes why nothing matched.
func (r Result) Reason() string {
	if r.Matched() {
		return ""
	}

	var ambiguous []string
	for _, t := range r.Trace {
		if len(t.Candidates) > 1 {
			ambiguous = append(ambiguous, fmt.Sprintf("%q (%d files)", t.Term, len(t.Candidates)))
		}
	}
	if len(ambiguous) == 0 {
		return "no file matches"
	}
	return "ambiguous: " + strings.Join(ambiguous, ", ")
}

// Matcher resolves parts against file listings. The zero value matches with no ignore patterns.
type Matcher struct {
	ignore []string
}

// New creates a Matcher that skips files whose base name matches any of the doublestar patterns, case-insensitively.
func New(ignore ...string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range ignore {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ToLower(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad ignore pattern %q", shared.ErrInvalidConfig, p)
		}
		m.ignore = append(m.ignore, p)
	}
	return m, nil
}

// Match returns the single file matching part, or "" when there is none.
func Match(part models.Part, files []string) (string, error) {
	return (&Matcher{}).Match(part, files)
}

// Match returns the single file matching part, or "" when there is none.
//
// Audio parts fail with [shared.ErrUnsupportedPart].
func (m *Matcher) Match(part models.Part, files []string) (string, error) {
	res, err := m.Resolve(part, files)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// Resolve is [Matcher.Match] with the per-term trace.
func (m *Matcher) Resolve(part models.Part, files []string) (Result, error) {
	if part.IsAudio() {
		return Result{}, fmt.Errorf("%w: audio matching is not implemented (%s)", shared.ErrUnsupportedPart, part.DisplayName())
	}

	// Full folding: "ß" matches "SS".
	fold := cases.Fold()
	key := func(s string) string {
		return fold.String(norm.NFC.String(s))
	}

	type candidate struct {
		path, key string
	}

	var pdfs []candidate
	for _, f := range files {
		name := filepath.Base(f)
		if !strings.EqualFold(filepath.Ext(name), ".pdf") || m.ignored(name) {
			continue
		}
		pdfs = append(pdfs, candidate{path: f, key: key(name)})
	}

	var res Result
	for _, term := range part.Terms() {
		tk := key(term)
		tr := TermResult{Term: term}
		for _, c := range pdfs {
			if strings.Contains(c.key, tk) {
				tr.Candidates = append(tr.Candidates, c.path)
			}
		}
		res.Trace = append(res.Trace, tr)

		if len(tr.Candidates) == 1 {
			res.Path = tr.Candidates[0]
			res.Term = term
			return res, nil
		}
	}

	return res, nil
}

func (m *Matcher) ignored(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range m.ignore {
		if ok, _ := doublestar.Match(p, lower); ok {
			return true
		}
	}
	return false
}
