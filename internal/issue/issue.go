// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Catalog entries. Zero means "no entry".
const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ManifestInvalidId
	ConfigInvalidId
	SelectionConflictId
	ArchiveFailedId
	PermissionDeniedId
)

const modinfoWiki HttpLink = "https://wiki.vintagestory.at/index.php/Modding:Modinfo"

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an entry.
	MarkdownMsg string

	// HttpLink is a reference shown under "See also".
	HttpLink string

	// Issue is a catalog entry with terminal-renderable guidance.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
		links []HttpLink
	}
)

// Id returns the entry's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Links returns a copy of the entry's reference links.
func (i *Issue) Links() []HttpLink {
	return slices.Clone(i.links)
}

// Markdown returns the body followed by a "See also" section when the entry
// has links.
func (i *Issue) Markdown() string {
	if len(i.links) == 0 {
		return string(i.mdMsg)
	}

	var b strings.Builder
	b.WriteString(string(i.mdMsg))
	b.WriteString("\n\n## See also\n")
	for _, link := range i.links {
		b.WriteString("- <")
		b.WriteString(string(link))
		b.WriteString(">\n")
	}
	return b.String()
}

// Render renders the entry for the terminal using a glamour style name
// ("dark", "light", "notty") or a path to a style JSON file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No mod info found

The project directory has no ` + "`modinfo.json`" + ` or ` + "`modinfo.yaml`" + `.

## Things you can try
- Create a minimal manifest next to your project file:
~~~json
{
  "type": "Code",
  "name": "My Mod"
}
~~~
- Check ` + "`--project-dir`" + ` points at the project, not the build output.
- If you only ship YAML, pass ` + "`--modinfo-type yaml`" + ` or leave it on ` + "`auto`" + `.`,
		links: []HttpLink{modinfoWiki},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# The mod info could not be read

The manifest exists but is not valid JSON or YAML for its format.

## Things you can try
- Look for trailing commas or unquoted keys in JSON.
- ` + "`type`" + ` must be one of Theme, Content or Code; ` + "`side`" + ` one of Universal, Client or Server.
- Run ` + "`vsmodpack validate`" + ` to check the manifest without building an archive.`,
		links: []HttpLink{modinfoWiki},
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# The mod info is incomplete

Every manifest needs a ` + "`name`" + ` and a ` + "`type`" + `. The mod id defaults to the
assembly name and the version is always taken from the build.

## Things you can try
- Add the missing fields reported above.
- Make sure ` + "`textureSize`" + ` is a positive integer and ` + "`dependencies`" + ` maps ids to version strings.`,
		links: []HttpLink{modinfoWiki},
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# Invalid packaging options

One of the packaging options could not be used.

## Things you can try
- ` + "`modinfo_type`" + ` accepts exactly ` + "`auto`" + `, ` + "`json`" + ` or ` + "`yaml`" + `.
- Pass ` + "`--assembly-name`" + ` and either ` + "`--build-version`" + ` or ` + "`--mod-version`" + `.
- Check ` + "`vsmodpack.cue`" + ` with ` + "`vsmodpack config show`" + `.`,
	}

	selectionConflictIssue = &Issue{
		id: SelectionConflictId,
		mdMsg: `
# Include and exclude were both set

The archive either contains exactly the include list, or everything except the
exclude list. Both at once is ambiguous.

## Things you can try
- Keep only one of ` + "`--include`" + ` / ` + "`--exclude`" + `.
- Check ` + "`VSMODPACK_INCLUDE`" + ` and ` + "`VSMODPACK_EXCLUDE`" + ` in your environment.`,
	}

	archiveFailedIssue = &Issue{
		id: ArchiveFailedId,
		mdMsg: `
# The archive could not be assembled

## Things you can try
- Every include entry must be a file relative to the output directory.
- Make sure no other process holds files in the output directory open.
- Rebuild the project and run the packager again.`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

The packager could not read or write inside the output directory.

## Things you can try
- Check ownership of the build output directory.
- Close tools that lock files in the output directory and retry.`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		manifestInvalidIssue.Id():    manifestInvalidIssue,
		configInvalidIssue.Id():      configInvalidIssue,
		selectionConflictIssue.Id():  selectionConflictIssue,
		archiveFailedIssue.Id():      archiveFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
