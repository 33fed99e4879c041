package git

import (
	"strconv"
	"strings"
)

// Ref is a normalized git reference: a branch, a tag, a commit id or HEAD.
type Ref string

// HEAD is the ref used when a language has no explicit version.
const HEAD Ref = "HEAD"

// ResolveRef normalizes a user supplied version string.
//
//   - a 40 character hexadecimal string is a commit id and is kept verbatim;
//   - a dotted list of non-negative integers without a leading "v" is a
//     version shorthand and gets the "v" prefix ("0.22.0" becomes "v0.22.0");
//   - anything else is kept verbatim.
func ResolveRef(version string) Ref {
	if isCommitID(version) {
		return Ref(version)
	}
	if !strings.HasPrefix(version, "v") && isDottedVersion(version) {
		return Ref("v" + version)
	}
	return Ref(version)
}

// String shortens commit ids to 7 characters.
func (r Ref) String() string {
	s := string(r)
	if isCommitID(s) {
		return s[:7]
	}
	return s
}

// IsCommit reports whether r is a full commit id.
func (r Ref) IsCommit() bool {
	return isCommitID(string(r))
}

func isCommitID(s string) bool {
	if len(s) != 40 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func isDottedVersion(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if _, err := strconv.ParseUint(part, 10, 64); err != nil {
			return false
		}
	}
	return true
}

// Tag is a release tag of a remote repository. An exact tag knows both its
// label and commit; an unresolved tag only carries the ref it was requested
// with and must be dereferenced against a checkout.
type Tag struct {
	label string
	ref   Ref
	exact bool
}

// ExactTag creates a tag discovered on the remote.
func ExactTag(label string, commit Ref) Tag {
	return Tag{label: label, ref: commit, exact: true}
}

// UnresolvedTag creates a tag that still has to be looked up.
func UnresolvedTag(ref Ref) Tag {
	return Tag{ref: ref}
}

// IsExact reports whether the tag label is known.
func (t Tag) IsExact() bool { return t.exact }

// Label returns the tag name, or the ref for unresolved tags.
func (t Tag) Label() string {
	if t.exact {
		return t.label
	}
	return string(t.ref)
}

// Ref returns the commit of an exact tag, or the requested ref.
func (t Tag) Ref() Ref { return t.ref }

func (t Tag) String() string {
	if t.exact {
		return t.label
	}
	return t.ref.String()
}
