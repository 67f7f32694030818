// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/capwire/capwire/pkg/capwire"
)

// Id identifies a catalog entry.
type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ManifestBuildErrorId
	ConfigLoadFailedId
	ContextNotFoundId
	MissingCapabilityId
	CyclicRequirementId
	AmbiguousGetterId
	BoundMismatchId
	UnboundSlotId
	ProviderMismatchId
	UnusedBindingId
)

type (
	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is one explained problem.
	Issue struct {
		id       Id
		slug     string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

const docsBase = "https://github.com/capwire/capwire/blob/main/docs/"

var (
	render = glamour.Render

	issues = map[Id]*Issue{}

	reasonIssues = map[capwire.Reason]Id{
		capwire.ReasonMissing:          MissingCapabilityId,
		capwire.ReasonCyclic:           CyclicRequirementId,
		capwire.ReasonAmbiguous:        AmbiguousGetterId,
		capwire.ReasonBoundMismatch:    BoundMismatchId,
		capwire.ReasonUnboundSlot:      UnboundSlotId,
		capwire.ReasonProviderMismatch: ProviderMismatchId,
		capwire.ReasonUnused:           UnusedBindingId,
	}
)

func init() {
	for _, i := range []*Issue{
		{
			id:   ManifestNotFoundId,
			slug: "manifest-not-found",
			mdMsg: `
# No manifest found

capwire could not find the manifest you asked for.

- Pass the path explicitly: ` + "`capwire check path/to/wiring.cue`" + `
- Manifests may be written in CUE (` + "`.cue`" + `), YAML (` + "`.yaml`" + `, ` + "`.yml`" + `) or TOML (` + "`.toml`" + `).
`,
			docLinks: []HttpLink{docsBase + "manifest.md"},
		},
		{
			id:   ManifestParseErrorId,
			slug: "manifest-parse-error",
			mdMsg: `
# The manifest does not match the schema

Every manifest is validated against the capwire schema before anything is
resolved. The error names the offending path, such as
` + "`contexts[0].delegations[1].provider`" + `.

- Check the field name and its type at that path.
- ` + "`version`" + ` must be ` + "`\"1\"`" + `.
`,
			docLinks: []HttpLink{docsBase + "manifest.md#schema"},
		},
		{
			id:   ManifestBuildErrorId,
			slug: "manifest-build-error",
			mdMsg: `
# The manifest declares something twice or refers to nothing

The manifest is well-formed, but its declarations do not fit together:
a duplicate identifier, a reference to an unknown type or slot, or a
context that extends a context that does not exist (or extends itself).
`,
			docLinks: []HttpLink{docsBase + "manifest.md#declarations"},
		},
		{
			id:   ConfigLoadFailedId,
			slug: "config-load-failed",
			mdMsg: `
# Failed to load the configuration

capwire reads ` + "`config.cue`" + ` from its configuration directory and
` + "`CAPWIRE_*`" + ` environment variables.

- Run ` + "`capwire config show`" + ` to see the effective configuration.
- Remove the file to fall back to the defaults.
`,
			docLinks: []HttpLink{docsBase + "config.md"},
		},
		{
			id:   ContextNotFoundId,
			slug: "context-not-found",
			mdMsg: `
# No such context

The manifest does not declare the context you named. List the contexts
with ` + "`capwire check`" + ` and no ` + "`--context`" + ` flag.
`,
			docLinks: []HttpLink{docsBase + "manifest.md#contexts"},
		},
		{
			id:   MissingCapabilityId,
			slug: "missing-capability",
			mdMsg: `
# Missing capability

A capability was required but the context neither delegates it to a
provider nor has an attribute a getter could read.

- Add a delegation for the capability to the context.
- If it is a getter, add an attribute with the getter's name, or fix the
  attribute's spelling. Renaming a field is a common cause.
- The requirement chain shows which provider pulled the capability in.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#missing"},
		},
		{
			id:   CyclicRequirementId,
			slug: "cyclic-requirement",
			mdMsg: `
# Cyclic requirement

The providers chosen in this context require each other in a loop, so
none of them can be built first. The cycle path lists every capability
on the loop.

Break the loop by delegating one of the capabilities to a provider that
does not require the others.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#cycles"},
		},
		{
			id:   AmbiguousGetterId,
			slug: "ambiguous-getter",
			mdMsg: `
# Ambiguous getter

More than one attribute could implement the getter, usually because two
embedded structs both carry a field with the same name.

Rename one of the fields, or tag the one to use with
` + "`capwire:\"name\"`" + `.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#getters"},
		},
		{
			id:   BoundMismatchId,
			slug: "bound-mismatch",
			mdMsg: `
# Bound mismatch

A type reached a place that demands more of it: an attribute whose type
is not what the getter returns, or a slot bound to a type that does not
satisfy the slot's or the requirement's bounds.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#bounds"},
		},
		{
			id:   UnboundSlotId,
			slug: "unbound-slot",
			mdMsg: `
# Unbound slot

A provider requires a slot that the context never binds.

- Bind the slot explicitly in the context, or
- expose a getter declared with the slot so the attribute's type binds it.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#slots"},
		},
		{
			id:   ProviderMismatchId,
			slug: "provider-mismatch",
			mdMsg: `
# Provider mismatch

The delegation table names a provider that is not declared, or one that
implements a different capability than the one it is bound to.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#delegation"},
		},
		{
			id:   UnusedBindingId,
			slug: "unused-binding",
			mdMsg: `
# Unused binding

The context binds a capability or slot that nothing it exposes requires.
Remove the binding, expose the capability, or run with
` + "`--allow-unused`" + ` to report it as a warning.
`,
			docLinks: []HttpLink{docsBase + "resolution.md#unused"},
		},
	} {
		issues[i.id] = i
	}
}

// Id returns the issue's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// Slug returns the name used by 'capwire explain'.
func (i *Issue) Slug() string {
	return i.slug
}

// MarkdownMsg returns the unrendered body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns the issue's documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue with the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var b strings.Builder
		b.WriteString("\n\n## See also\n\n")
		for _, link := range i.docLinks {
			fmt.Fprintf(&b, "- <%s>\n", link)
		}
		md += b.String()
	}
	return render(md, stylePath)
}

func (id Id) String() string {
	if i, ok := issues[id]; ok {
		return i.slug
	}
	return fmt.Sprintf("Id(%d)", int(id))
}

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Lookup returns the issue whose slug or resolution reason name matches
// name, case-insensitively.
func Lookup(name string) (*Issue, bool) {
	if r, ok := capwire.ParseReason(name); ok {
		return ForReason(r), true
	}
	for _, i := range issues {
		if strings.EqualFold(i.slug, name) {
			return i, true
		}
	}
	return nil, false
}

// ForReason returns the issue explaining a resolution failure reason.
func ForReason(r capwire.Reason) *Issue {
	return issues[reasonIssues[r]]
}
