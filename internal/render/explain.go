package render

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Explain shows how the typed line differs from its canonical form.
// Removed text is marked [-like this-] and added text {+like this+}.
func Explain(input, canonical string) string {
	if input == canonical {
		return canonical
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(input, canonical, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
