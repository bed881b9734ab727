package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/faize-ai/archbox/internal/provision"
	"github.com/kballard/go-shellquote"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// printSummary writes a human readable overview of p.
func printSummary(w io.Writer, p *provision.Plan) {
	field := func(name, value string) {
		fmt.Fprintf(w, "  %s  %s\n", nameStyle.Render(fmt.Sprintf("%-12s", name)), valueStyle.Render(value))
	}
	section := func(name string, count int) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("  %s (%d)", name, count)))
		fmt.Fprintln(w, dimStyle.Render("  "+strings.Repeat("-", 35)))
	}

	fmt.Fprintln(w, titleStyle.Render("  archbox plan: "+p.Hostname))
	fmt.Fprintln(w, dimStyle.Render("  "+strings.Repeat("=", 30)))
	field("provider", p.DefaultProvider)
	field("box", p.Box)
	for _, vb := range p.VirtualBoxes {
		field("machine", fmt.Sprintf("%s, %d MB, %d cpu", vb.Name, vb.Memory, vb.CPUs))
	}
	for _, n := range p.Networks {
		addr := n.IP
		if n.DHCP {
			addr = "dhcp"
		}
		field(n.Type, addr)
	}

	section("Forwarded ports", len(p.ForwardedPorts))
	for _, fp := range p.ForwardedPorts {
		proto := fp.Protocol
		if proto == "" {
			proto = "tcp"
		}
		field(fmt.Sprintf("%d/%s", fp.Guest, proto), fmt.Sprintf("host %d", fp.Host))
	}

	section("Synced folders", len(p.SyncedFolders))
	for _, f := range p.SyncedFolders {
		kind := f.Type
		if kind == "" {
			kind = "native"
		}
		field(kind, f.Source+" -> "+f.Destination)
	}

	section("Provisioners", len(p.Provisioners))
	for _, prov := range p.Provisioners {
		switch {
		case prov.Shell != nil:
			name := prov.Shell.Name
			if name == "" {
				name = "shell"
			}
			field("shell", name)
		case prov.File != nil:
			field("file", shellquote.Join(prov.File.Source)+" -> "+shellquote.Join(prov.File.Destination))
		}
	}

	if len(p.Triggers) > 0 {
		section("Triggers", len(p.Triggers))
		for _, t := range p.Triggers {
			field(t.When+" "+t.On, t.Name)
		}
	}

	fmt.Fprintln(w)
}
