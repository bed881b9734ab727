// Package vagrantfile renders a provisioning plan as a Ruby Vagrantfile.
package vagrantfile

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/faize-ai/archbox/internal/provision"
)

// Render writes a Vagrantfile applying p. The default provider is not set
// here; it travels in the environment of the vagrant invocation.
func Render(w io.Writer, p *provision.Plan) error {
	var sb strings.Builder

	sb.WriteString("# -*- mode: ruby -*-\n")
	sb.WriteString("# vi: set ft=ruby :\n")
	sb.WriteString("# Generated by archbox. Changes are overwritten on the next render.\n\n")
	sb.WriteString("Vagrant.configure('2') do |config|\n")

	fmt.Fprintf(&sb, "  config.vm.box = %s\n", quote(p.Box))
	fmt.Fprintf(&sb, "  config.vm.hostname = %s\n", quote(p.Hostname))

	if len(p.Networks) > 0 {
		sb.WriteString("\n")
		for _, n := range p.Networks {
			writeNetwork(&sb, n)
		}
	}

	for _, vb := range p.VirtualBoxes {
		sb.WriteString("\n")
		writeVirtualBox(&sb, vb)
	}

	if len(p.ForwardedPorts) > 0 {
		sb.WriteString("\n")
		for _, fp := range p.ForwardedPorts {
			writeForwardedPort(&sb, fp)
		}
	}

	for _, prov := range p.Provisioners {
		sb.WriteString("\n")
		switch {
		case prov.Shell != nil:
			writeShell(&sb, *prov.Shell)
		case prov.File != nil:
			fmt.Fprintf(&sb, "  config.vm.provision 'file', source: %s, destination: %s\n",
				quote(prov.File.Source), quote(prov.File.Destination))
		}
	}

	if len(p.SyncedFolders) > 0 {
		sb.WriteString("\n")
		for _, f := range p.SyncedFolders {
			writeSyncedFolder(&sb, f)
		}
	}

	if len(p.Binds) > 0 {
		sb.WriteString("\n")
		for _, b := range p.Binds {
			fmt.Fprintf(&sb, "  config.bindfs.bind_folder %s, %s\n", quote(b.Source), quote(b.Target))
		}
	}

	for _, t := range p.Triggers {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  config.trigger.%s :%s do |trigger|\n", t.When, t.On)
		fmt.Fprintf(&sb, "    trigger.name = %s\n", quote(t.Name))
		fmt.Fprintf(&sb, "    trigger.run_remote = { inline: %s }\n", quote(t.RunRemote))
		sb.WriteString("  end\n")
	}

	sb.WriteString("end\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeNetwork(sb *strings.Builder, n provision.Network) {
	args := []string{quote(n.Type)}
	if n.DHCP {
		args = append(args, "type: 'dhcp'")
	} else if n.IP != "" {
		args = append(args, "ip: "+quote(n.IP))
	}
	if n.Bridge != "" {
		args = append(args, "bridge: "+quote(n.Bridge))
	}
	if n.Netmask != "" {
		args = append(args, "netmask: "+quote(n.Netmask))
	}
	fmt.Fprintf(sb, "  config.vm.network %s\n", strings.Join(args, ", "))
}

func writeVirtualBox(sb *strings.Builder, vb provision.VirtualBox) {
	sb.WriteString("  config.vm.provider 'virtualbox' do |v|\n")
	fmt.Fprintf(sb, "    v.name = %s\n", quote(vb.Name))
	fmt.Fprintf(sb, "    v.memory = %d\n", vb.Memory)
	fmt.Fprintf(sb, "    v.cpus = %d\n", vb.CPUs)
	for _, directive := range vb.Customize {
		fmt.Fprintf(sb, "    v.customize %s\n", list(directive))
	}
	if vb.GUI {
		sb.WriteString("    v.gui = true\n")
	}
	sb.WriteString("  end\n")
}

func writeForwardedPort(sb *strings.Builder, fp provision.ForwardedPort) {
	args := []string{
		"guest: " + strconv.Itoa(fp.Guest),
		"host: " + strconv.Itoa(fp.Host),
	}
	if fp.Protocol != "" {
		args = append(args, "protocol: "+quote(fp.Protocol))
	}
	args = append(args, "auto_correct: "+strconv.FormatBool(fp.AutoCorrect))
	if fp.ID != "" {
		args = append(args, "id: "+quote(fp.ID))
	}
	fmt.Fprintf(sb, "  config.vm.network 'forwarded_port', %s\n", strings.Join(args, ", "))
}

func writeShell(sb *strings.Builder, s provision.Shell) {
	sb.WriteString("  config.vm.provision 'shell' do |s|\n")
	if s.Name != "" {
		fmt.Fprintf(sb, "    s.name = %s\n", quote(s.Name))
	}
	fmt.Fprintf(sb, "    s.privileged = %t\n", s.Privileged)
	fmt.Fprintf(sb, "    s.inline = %s\n", quote(s.Inline))
	if len(s.Args) > 0 {
		fmt.Fprintf(sb, "    s.args = %s\n", list(s.Args))
	}
	sb.WriteString("  end\n")
}

func writeSyncedFolder(sb *strings.Builder, f provision.SyncedFolder) {
	args := []string{quote(f.Source), quote(f.Destination)}
	if f.Type != "" {
		args = append(args, "type: "+quote(f.Type))
	} else {
		args = append(args, "type: nil")
	}
	args = append(args, "mount_options: "+list(f.MountOptions))

	keys := make([]string, 0, len(f.Options))
	for k := range f.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("%s %s", symbolKeyColon(k), value(f.Options[k])))
	}

	fmt.Fprintf(sb, "  config.vm.synced_folder %s\n", strings.Join(args, ", "))
}

// quote returns a single-quoted Ruby string literal; only \ and ' need escaping.
func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// list renders a Ruby array; the VirtualBox machine placeholder stays a symbol.
func list(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if item == provision.VMID {
			parts[i] = item
			continue
		}
		parts[i] = quote(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// symbolKey renders a hash key in label style, falling back to a quoted symbol.
func symbolKey(k string) string {
	for _, r := range k {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ":" + quote(k) + " =>"
		}
	}
	if k == "" || k[0] >= '0' && k[0] <= '9' {
		return ":" + quote(k) + " =>"
	}
	return k
}

// value renders a settings value decoded from YAML/JSON as a Ruby literal.
func value(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return quote(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return list(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = value(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s %s", symbolKeyColon(k), value(t[k]))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return quote(fmt.Sprint(t))
	}
}

func symbolKeyColon(k string) string {
	key := symbolKey(k)
	if strings.HasSuffix(key, "=>") {
		return key
	}
	return key + ":"
}
