package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestPhase_StringAndTitle(t *testing.T) {
	tests := []struct {
		phase Phase
		str   string
		title string
	}{
		{PhaseClone, "clone", "Clone"},
		{PhaseGenerate, "generate", "Generate"},
		{PhaseBuild, "build", "Build"},
		{PhaseCopy, "copy", "Copy"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.phase.Title(); got != tt.title {
			t.Errorf("Title() = %q, want %q", got, tt.title)
		}
	}
	if got := Phase(42).String(); got != "phase(42)" {
		t.Errorf("unknown phase String() = %q", got)
	}
}

func TestCommandError_Error(t *testing.T) {
	err := &CommandError{Message: "git fetch failed with exit status 128.", Stderr: "fatal: not found"}
	got := err.Error()
	if !strings.HasPrefix(got, "git fetch failed with exit status 128.") {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(got, "stderr:\nfatal: not found") {
		t.Errorf("Error() = %q, want stderr section", got)
	}
	if strings.Contains(got, "stdout:") {
		t.Errorf("Error() = %q, empty stdout should be omitted", got)
	}
}

func TestStepError_Error(t *testing.T) {
	cause := errors.New("exit status 1")
	tests := []struct {
		name string
		err  *StepError
		want string
	}{
		{"clone", &StepError{Language: "json", Phase: PhaseClone, Dir: "/b/json", Cause: cause}, "json: could not clone to /b/json: exit status 1"},
		{"generate", &StepError{Language: "json", Phase: PhaseGenerate, Dir: "/b/json"}, "json: could not generate in /b/json"},
		{"build", &StepError{Language: "php", Phase: PhaseBuild, Dir: "/b/php/php", Cause: cause}, "php: could not build in /b/php/php: exit status 1"},
		{"copy", &StepError{Language: "php", Phase: PhaseCopy, Src: "/b/php/php/x.so", Dst: "/out/php.so", Cause: cause}, "php: could not copy /b/php/php/x.so to /out/php.so: exit status 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregateError_ReachesNestedCause(t *testing.T) {
	cmdErr := &CommandError{Message: "tree-sitter generate failed"}
	agg := NewAggregate("could not build all parsers", []*LanguageError{
		{Name: "rust", Steps: []*StepError{{Language: "rust", Phase: PhaseClone, Cause: errors.New("x")}}},
		{Name: "json", Steps: []*StepError{{Language: "json", Phase: PhaseGenerate, Cause: cmdErr}}},
	})

	var target *CommandError
	if !errors.As(agg, &target) {
		t.Fatal("errors.As should find the nested CommandError")
	}
	if target != cmdErr {
		t.Errorf("errors.As found %v, want %v", target, cmdErr)
	}

	names := agg.Languages()
	if len(names) != 2 || names[0] != "json" || names[1] != "rust" {
		t.Errorf("Languages() = %v, want sorted [json rust]", names)
	}

	msg := agg.Error()
	for _, want := range []string{"could not build all parsers", "json: could not generate", "rust: could not clone"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want to contain %q", msg, want)
		}
	}
}

func TestLanguageError_Phases(t *testing.T) {
	le := &LanguageError{Name: "php", Steps: []*StepError{
		{Phase: PhaseCopy},
		{Phase: PhaseBuild},
		{Phase: PhaseCopy},
	}}
	phases := le.Phases()
	if len(phases) != 2 || phases[0] != PhaseBuild || phases[1] != PhaseCopy {
		t.Errorf("Phases() = %v, want [build copy]", phases)
	}
}

func TestLanguageError_CauseOnly(t *testing.T) {
	le := &LanguageError{Name: "cobol", Cause: errors.New("invalid url")}
	if got := le.Error(); got != "cobol: invalid url" {
		t.Errorf("Error() = %q", got)
	}
}
