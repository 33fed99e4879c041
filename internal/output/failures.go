package output

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
)

// Failures prints every failed language of agg with its phases and nested
// causes. Languages missing from declared get a "did you mean" hint when a
// declared name is close.
func (w *Writer) Failures(agg *tsdlerrors.AggregateError, declared []string) {
	w.SummaryHeader(agg.Message)
	for _, le := range agg.Errors {
		w.SummaryAction(le.Name, false, phaseSummary(le), "")
		for _, line := range strings.Split(le.Error(), "\n") {
			w.Errorln("        %s", line)
		}
		if s := Suggest(le.Name, declared); s != "" {
			w.Hint("        did you mean %q?", s)
		}
	}
	w.FinalFailure("%d language(s) failed: %s", len(agg.Errors), strings.Join(agg.Languages(), ", "))
}

func phaseSummary(le *tsdlerrors.LanguageError) string {
	phases := le.Phases()
	if len(phases) == 0 {
		return "Setup"
	}
	titles := make([]string, len(phases))
	for i, p := range phases {
		titles[i] = p.Title()
	}
	return strings.Join(titles, ", ")
}

// Suggest returns the declared name closest to name, or "" when name is
// declared or nothing matches.
func Suggest(name string, declared []string) string {
	if name == "" || slices.Contains(declared, name) {
		return ""
	}
	matches := fuzzy.Find(name, declared)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
