package viewer

import (
	"strings"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/nav"
)

// FormatFragment returns "#sectionId" or "#sectionId-subsectionId".
func FormatFragment(sectionID, subsectionID string) string {
	return nav.Fragment(sectionID, subsectionID)
}

// ParseFragment splits a location fragment into section and subsection ids.
// Both section ids and slugs may contain hyphens, so the split is resolved
// against the document:
//
//  1. a fragment equal to a section id names that section;
//  2. otherwise the longest section-id prefix whose remainder is one of that
//     section's subsection slugs wins;
//  3. otherwise the longest section-id prefix wins and the remainder is kept
//     as a (missing) subsection id;
//  4. otherwise the whole fragment is returned as the section id.
func ParseFragment(doc *document.Tree, fragment string) (sectionID, subsectionID string) {
	frag := strings.TrimPrefix(fragment, "#")
	if frag == "" {
		return "", ""
	}
	if _, ok := doc.Section(frag); ok {
		return frag, ""
	}

	var fallbackSec, fallbackSub string
	best := -1
	for i := len(frag) - 1; i > 0; i-- {
		if frag[i] != '-' {
			continue
		}
		secID, subID := frag[:i], frag[i+1:]
		sec, ok := doc.Section(secID)
		if !ok || subID == "" {
			continue
		}
		if _, ok := sec.Subsection(subID); ok {
			return secID, subID
		}
		if best < 0 {
			best = i
			fallbackSec, fallbackSub = secID, subID
		}
	}
	if best >= 0 {
		return fallbackSec, fallbackSub
	}
	return frag, ""
}
