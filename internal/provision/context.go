// Package provision translates archbox settings into provisioning calls against a Vagrant-style context.
package provision

// VMID is the placeholder VirtualBox substitutes with the machine UUID in customize directives.
const VMID = ":id"

// Plugin names probed through Context.HasPlugin
const (
	PluginBindFS = "vagrant-bindfs"
)

// Context is the provisioning tool's configuration object. Configure issues
// calls in a fixed order; implementations record or apply them.
type Context interface {
	SetDefaultProvider(provider string)
	SetBox(box string)
	SetHostname(hostname string)
	Network(n Network)
	VirtualBox(vb VirtualBox)
	ForwardPort(p ForwardedPort)
	Shell(s Shell)
	File(f File)
	SyncedFolder(f SyncedFolder)
	BindFolder(source, target string)
	Trigger(t Trigger)
	HasPlugin(name string) bool
}

// Network is a private or public network interface
type Network struct {
	Type    string `json:"type" yaml:"type"`
	IP      string `json:"ip,omitempty" yaml:"ip,omitempty"`
	DHCP    bool   `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`
	Bridge  string `json:"bridge,omitempty" yaml:"bridge,omitempty"`
	Netmask string `json:"netmask,omitempty" yaml:"netmask,omitempty"`
}

// VirtualBox is the provider block applied only when the machine runs on VirtualBox
type VirtualBox struct {
	Name      string     `json:"name" yaml:"name"`
	Memory    int        `json:"memory" yaml:"memory"`
	CPUs      int        `json:"cpus" yaml:"cpus"`
	GUI       bool       `json:"gui" yaml:"gui"`
	Customize [][]string `json:"customize" yaml:"customize"`
}

// ForwardedPort maps a guest port to a host port
type ForwardedPort struct {
	Guest       int    `json:"guest" yaml:"guest"`
	Host        int    `json:"host" yaml:"host"`
	Protocol    string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	AutoCorrect bool   `json:"auto_correct" yaml:"auto_correct"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Shell is an inline shell provisioner; Args become $1, $2, ...
type Shell struct {
	Name       string   `json:"name" yaml:"name"`
	Inline     string   `json:"inline" yaml:"inline"`
	Args       []string `json:"args,omitempty" yaml:"args,omitempty"`
	Privileged bool     `json:"privileged" yaml:"privileged"`
}

// File uploads a host file to the guest
type File struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// SyncedFolder shares a host directory with the guest
type SyncedFolder struct {
	Source       string         `json:"source" yaml:"source"`
	Destination  string         `json:"destination" yaml:"destination"`
	Type         string         `json:"type,omitempty" yaml:"type,omitempty"`
	MountOptions []string       `json:"mount_options" yaml:"mount_options"`
	Options      map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Bind is a bindfs bind of a guest folder onto a target
type Bind struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Trigger runs a guest command around a machine action (e.g., before destroy)
type Trigger struct {
	Name      string `json:"name" yaml:"name"`
	When      string `json:"when" yaml:"when"`
	On        string `json:"on" yaml:"on"`
	RunRemote string `json:"run_remote" yaml:"run_remote"`
}
