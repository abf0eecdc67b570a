// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	PageFileInvalidId
	PagesDirUnreadableId
	NoPagesFoundId
	PageNotFoundId
	StateWriteFailedId
	SSHServerStartFailedId
)

// Issue is a Markdown guidance page.
type Issue struct {
	id       Id
	markdown string
	docLinks []string
}

// Id returns the catalog key.
func (i *Issue) Id() Id { return i.id }

// Markdown returns the raw guidance text.
func (i *Issue) Markdown() string { return i.markdown }

// Render formats the guidance for a terminal with the given glamour style
// ("dark", "light", "auto", or a style file path).
func (i *Issue) Render(style string) (string, error) {
	md := i.markdown
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- " + link + "\n"
		}
	}
	return render(md, style)
}

var (
	render = glamour.Render

	catalog = map[Id]*Issue{
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			markdown: `
# Configuration could not be loaded

## Things you can try
- Check the CUE syntax of your config file
- Print the effective configuration:
~~~
$ pageshell config show
~~~
- Write a fresh default file and compare:
~~~
$ pageshell config init --force
~~~`,
		},
		PageFileInvalidId: {
			id: PageFileInvalidId,
			markdown: `
# A page file is invalid

Each ` + "`<key>.cue`" + ` file must declare at least one implementation with a
non-empty ` + "`name`" + ` and ` + "`label`" + `.

~~~cue
implementations: [{
	name:  "reports"
	label: "Reports"
	icon:  "bar-chart"
	order: 20
}]
~~~`,
		},
		PagesDirUnreadableId: {
			id: PagesDirUnreadableId,
			markdown: `
# A pages directory could not be read

## Things you can try
- Check ` + "`pages.dirs`" + ` in your config
- Make sure the directory exists and is readable`,
		},
		NoPagesFoundId: {
			id: NoPagesFoundId,
			markdown: `
# No pages were found

Discovery finished without a single loadable page, so there is nothing to
navigate to.

## Things you can try
- Run ` + "`pageshell diagnostics`" + ` to see which sources failed
- Add a page file to one of the configured ` + "`pages.dirs`",
		},
		PageNotFoundId: {
			id: PageNotFoundId,
			markdown: `
# Page not found

The requested key does not match any discovered page; the default page was
shown instead.

~~~
$ pageshell list
~~~`,
		},
		StateWriteFailedId: {
			id: StateWriteFailedId,
			markdown: `
# The previous selection could not be saved

Check that the directory of ` + "`state.file`" + ` is writable.`,
		},
		SSHServerStartFailedId: {
			id: SSHServerStartFailedId,
			markdown: `
# The SSH server could not start

## Things you can try
- Pick another port with ` + "`PAGESHELL_SSH_PORT`" + `
- Check that the host key path is writable`,
		},
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(catalog))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog[id])
	}
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return catalog[id]
}
