package site

import (
	"strings"

	"github.com/sitebox/sitebox/pkg/sberr"
)

// forbiddenFragments are matched as substrings of the full entry name.
// Substring matching is deliberately what the check does: a name like
// "docs/.environment" is rejected too. The coarse net is accepted over a
// stricter segment parse that could let a dressed-up secret file through.
var forbiddenFragments = []string{"node_modules", ".env", ".git"}

// ValidateEntries inspects archive entries before anything is stored.
// Pure inspection, no side effects.
func ValidateEntries(entries []Entry) error {
	for _, e := range entries {
		for _, frag := range forbiddenFragments {
			if strings.Contains(e.Name, frag) {
				return sberr.Newf(sberr.CodeBadRequest,
					"archive contains forbidden content (%s): %q", frag, e.Name)
			}
		}
	}
	return nil
}
