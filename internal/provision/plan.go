package provision

import "slices"

// Provisioner is one entry of the ordered provisioner list; exactly one field is set.
type Provisioner struct {
	Shell *Shell `json:"shell,omitempty" yaml:"shell,omitempty"`
	File  *File  `json:"file,omitempty" yaml:"file,omitempty"`
}

// Plan is a Context that records every call, in order.
type Plan struct {
	DefaultProvider string          `json:"default_provider" yaml:"default_provider"`
	Box             string          `json:"box" yaml:"box"`
	Hostname        string          `json:"hostname" yaml:"hostname"`
	Networks        []Network       `json:"networks" yaml:"networks"`
	VirtualBoxes    []VirtualBox    `json:"virtualbox,omitempty" yaml:"virtualbox,omitempty"`
	ForwardedPorts  []ForwardedPort `json:"forwarded_ports" yaml:"forwarded_ports"`
	Provisioners    []Provisioner   `json:"provisioners" yaml:"provisioners"`
	SyncedFolders   []SyncedFolder  `json:"synced_folders" yaml:"synced_folders"`
	Binds           []Bind          `json:"binds,omitempty" yaml:"binds,omitempty"`
	Triggers        []Trigger       `json:"triggers,omitempty" yaml:"triggers,omitempty"`
	Plugins         []string        `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// NewPlan creates an empty plan; plugins are the installed provisioning-tool plugins.
func NewPlan(plugins ...string) *Plan {
	return &Plan{Plugins: plugins}
}

func (p *Plan) SetDefaultProvider(provider string) { p.DefaultProvider = provider }
func (p *Plan) SetBox(box string)                  { p.Box = box }
func (p *Plan) SetHostname(hostname string)        { p.Hostname = hostname }
func (p *Plan) Network(n Network)                  { p.Networks = append(p.Networks, n) }
func (p *Plan) VirtualBox(vb VirtualBox)           { p.VirtualBoxes = append(p.VirtualBoxes, vb) }
func (p *Plan) ForwardPort(fp ForwardedPort)       { p.ForwardedPorts = append(p.ForwardedPorts, fp) }
func (p *Plan) SyncedFolder(f SyncedFolder)        { p.SyncedFolders = append(p.SyncedFolders, f) }
func (p *Plan) Trigger(t Trigger)                  { p.Triggers = append(p.Triggers, t) }

func (p *Plan) Shell(s Shell) {
	p.Provisioners = append(p.Provisioners, Provisioner{Shell: &s})
}

func (p *Plan) File(f File) {
	p.Provisioners = append(p.Provisioners, Provisioner{File: &f})
}

func (p *Plan) BindFolder(source, target string) {
	p.Binds = append(p.Binds, Bind{Source: source, Target: target})
}

func (p *Plan) HasPlugin(name string) bool {
	return slices.Contains(p.Plugins, name)
}

// Shells returns the shell provisioners in order.
func (p *Plan) Shells() []Shell {
	var shells []Shell
	for _, prov := range p.Provisioners {
		if prov.Shell != nil {
			shells = append(shells, *prov.Shell)
		}
	}
	return shells
}

// Files returns the file provisioners in order.
func (p *Plan) Files() []File {
	var files []File
	for _, prov := range p.Provisioners {
		if prov.File != nil {
			files = append(files, *prov.File)
		}
	}
	return files
}

// ActionCount returns the number of recorded calls, not counting the
// provider, box and hostname assignments.
func (p *Plan) ActionCount() int {
	return len(p.Networks) + len(p.VirtualBoxes) + len(p.ForwardedPorts) +
		len(p.Provisioners) + len(p.SyncedFolders) + len(p.Binds) + len(p.Triggers)
}
