// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}

	for i, v := range values {
		if want := Id(i + 1); v.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), want)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", v.Id())
		}
	}
}

func TestGet(t *testing.T) {
	if got := Get(ManifestInvalidId); got == nil || got.Id() != ManifestInvalidId {
		t.Errorf("Get(ManifestInvalidId) = %v", got)
	}
	if got := Get(0); got != nil {
		t.Errorf("Get(0) = %v, want nil", got)
	}
	if got := Get(Id(999)); got != nil {
		t.Errorf("Get(999) = %v, want nil", got)
	}
}

func TestIssue_Links(t *testing.T) {
	entry := Get(ManifestNotFoundId)

	links := entry.Links()
	if len(links) == 0 {
		t.Fatal("Links() returned no links")
	}

	links[0] = "modified"
	if entry.Links()[0] == "modified" {
		t.Error("Links() should return a copy")
	}
}

func TestIssue_Markdown(t *testing.T) {
	withLinks := Get(ManifestNotFoundId).Markdown()
	if !strings.Contains(withLinks, "## See also") {
		t.Errorf("Markdown() missing see-also section:\n%s", withLinks)
	}
	if !strings.Contains(withLinks, string(modinfoWiki)) {
		t.Errorf("Markdown() missing link %s", modinfoWiki)
	}

	withoutLinks := Get(SelectionConflictId).Markdown()
	if strings.Contains(withoutLinks, "See also") {
		t.Errorf("Markdown() should not add see-also without links:\n%s", withoutLinks)
	}
}

func TestIssue_Render(t *testing.T) {
	for _, entry := range Values() {
		out, err := entry.Render("notty")
		if err != nil {
			t.Errorf("Render(%d) unexpected error: %v", entry.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("Render(%d) returned empty output", entry.Id())
		}
	}

	out, err := Get(ManifestNotFoundId).Render("notty")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No mod info found") {
		t.Errorf("Render() missing heading:\n%s", out)
	}
}
