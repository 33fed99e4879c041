package output

import (
	"errors"
	"strings"
	"testing"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
)

func TestSuggest(t *testing.T) {
	t.Parallel()
	declared := []string{"json", "rust", "typescript", "python"}
	tests := []struct {
		name string
		want string
	}{
		{"jsn", "json"},
		{"typscript", "typescript"},
		{"pyth", "python"},
		{"json", ""},
		{"zzz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Suggest(tt.name, declared); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSuggest_NothingDeclared(t *testing.T) {
	t.Parallel()
	if got := Suggest("json", nil); got != "" {
		t.Errorf("Suggest() = %q, want empty", got)
	}
}

func TestWriter_Failures(t *testing.T) {
	w, _, stderr := newTestWriter()
	agg := tsdlerrors.NewAggregate("could not build all parsers", []*tsdlerrors.LanguageError{
		{
			Name: "jsn",
			Steps: []*tsdlerrors.StepError{{
				Language: "jsn",
				Phase:    tsdlerrors.PhaseClone,
				Dir:      "/tmp/jsn",
				Cause:    errors.New("repository not found"),
			}},
		},
		{
			Name: "rust",
			Steps: []*tsdlerrors.StepError{
				{Language: "rust", Phase: tsdlerrors.PhaseCopy, Src: "/a", Dst: "/b", Cause: errors.New("ambiguous")},
				{Language: "rust", Phase: tsdlerrors.PhaseGenerate, Dir: "/tmp/rust", Cause: errors.New("exit 1")},
			},
		},
		{Name: "bad", Cause: errors.New("could not parse from")},
	})

	w.Failures(agg, []string{"json", "rust"})

	out := stderr.String()
	for _, want := range []string{
		"=== could not build all parsers ===",
		"x bad          Setup",
		"x jsn          Clone",
		"jsn: could not clone to /tmp/jsn: repository not found",
		`did you mean "json"?`,
		"x rust         Generate, Copy",
		"rust: could not copy /a to /b: ambiguous",
		"3 language(s) failed: bad, jsn, rust",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Failures() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `did you mean "rust"`) {
		t.Errorf("Failures() suggested a declared language for itself:\n%s", out)
	}
}
