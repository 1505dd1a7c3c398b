// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	TemplateDirNotFoundId
	ModuleNotAMDId
	ReservedBundleNameId
	OutputWriteFailedId
	ScriptNotFoundId
	MinifyFailedId
	DependencyCycleId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue as terminal-styled markdown. stylePath is a
// glamour style name ("dark", "light", "notty") or a style file path.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

amdpack reads ` + "`amdpack.cue`" + ` from the current directory, or the file given
with ` + "`--config`" + `.

## Things you can try:
- Check the error message above for the failing field
- Print the effective configuration:
~~~
$ amdpack config show
~~~

- Start over from a generated file:
~~~
$ amdpack config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	templateDirNotFoundIssue = &Issue{
		id: TemplateDirNotFoundId,
		mdMsg: `
# Template directory not found!

A directory listed in ` + "`template_dirs`" + ` does not exist. Templates are
scanned for ` + "`require([...])`" + ` calls to find the entry modules.

## Things you can try:
- Fix the path in ` + "`amdpack.cue`" + ` (relative paths resolve from the config file)
- Remove the entry when the directory is gone:
~~~cue
template_dirs: ["templates"]
~~~`,
	}

	moduleNotAMDIssue = &Issue{
		id: ModuleNotAMDId,
		mdMsg: `
# Module is not an AMD module!

A module assigned to a bundle has no ` + "`define(...)`" + ` call, so its module id
cannot be written into the bundle.

## Things you can try:
- Describe the script with a shim instead of bundling it:
~~~cue
shim: {
	jquery: {exports: "$"}
}
~~~

- Remove the module from the ` + "`bundles`" + ` entry that lists it
- Wrap the script in a ` + "`define()`" + ` call`,
		extLinks: []HttpLink{"https://requirejs.org/docs/api.html#config-shim"},
	}

	reservedBundleNameIssue = &Issue{
		id: ReservedBundleNameId,
		mdMsg: `
# Reserved bundle name!

The bundle name ` + "`main`" + ` is used for the implicit bundle holding every module
that no configured bundle claims.

## Things you can try:
- Rename the bundle in ` + "`amdpack.cue`" + `:
~~~cue
bundles: {
	core: ["app/main", "app/util"]
}
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write output!

A bundle or the compiled loader script could not be written.

## Things you can try:
- Check that ` + "`output.dir`" + ` exists or can be created
- Check the directory permissions
- Use ` + "`--out -`" + ` to print the loader script instead`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Loader script not found!

The loader script given to ` + "`amdpack build`" + ` could not be read.

## Things you can try:
- Pass the path of the RequireJS loader:
~~~
$ amdpack build static/js/require.js --main app/main
~~~

- Omit the argument to emit only the loader configuration`,
	}

	minifyFailedIssue = &Issue{
		id: MinifyFailedId,
		mdMsg: `
# Failed to minify a bundle!

The bundle content is not valid JavaScript. The error above names the
line and column inside the rewritten bundle.

## Things you can try:
- Build without minification to inspect the bundle:
~~~cue
minify: false
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Modules depend on each other in a loop. The loader tolerates cycles, but
no dependency-first order exists, so modules are listed in discovery order.

## Things you can try:
- Inspect the dependencies of the modules named above:
~~~
$ amdpack deps static/js/app/main.js
~~~

- Break the loop with a runtime ` + "`require()`" + ` inside the factory`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		templateDirNotFoundIssue.Id(): templateDirNotFoundIssue,
		moduleNotAMDIssue.Id():        moduleNotAMDIssue,
		reservedBundleNameIssue.Id():  reservedBundleNameIssue,
		outputWriteFailedIssue.Id():   outputWriteFailedIssue,
		scriptNotFoundIssue.Id():      scriptNotFoundIssue,
		minifyFailedIssue.Id():        minifyFailedIssue,
		dependencyCycleIssue.Id():     dependencyCycleIssue,
	}
)

// Values returns every catalog entry sorted by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
