// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package renderer

import (
	"sort"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/platform-engineering-labs/fabrica/internal/cli/display"
)

// Resource is one registered resource as the CLI displays it.
type Resource struct {
	Name   string
	Type   string
	URN    string
	ID     string
	Parent string // parent resource name, "" for roots
}

// RenderResourceTree draws the parent hierarchy of the registered resources.
func RenderResourceTree(resources []Resource) (string, error) {
	var buf strings.Builder
	root := gtree.NewRoot(display.LightBlue(display.Tool))

	nodes := map[string]*gtree.Node{}
	var attach func(r Resource) *gtree.Node
	byName := map[string]Resource{}
	for _, r := range resources {
		byName[r.Name] = r
	}

	attach = func(r Resource) *gtree.Node {
		if n, ok := nodes[r.Name]; ok {
			return n
		}
		parent := root
		if p, ok := byName[r.Parent]; ok {
			parent = attach(p)
		}
		n := parent.Add(r.Name + display.Greyf(" (%s)", r.Type))
		nodes[r.Name] = n
		return n
	}

	sorted := make([]Resource, len(resources))
	copy(sorted, resources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, r := range sorted {
		attach(r)
	}

	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderSummary draws the registered resources as a table.
func RenderSummary(resources []Resource) (string, error) {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})))

	table.Header(display.LightBlue("Name"),
		"Type",
		display.Grey("URN"),
		display.Gold("ID"))

	data := make([][]string, 0, len(resources))
	for _, r := range resources {
		id := r.ID
		if id == "" {
			id = display.Grey("-")
		}
		data = append(data, []string{r.Name, r.Type, r.URN, id})
	}

	if err := table.Bulk(data); err != nil {
		return "", err
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
