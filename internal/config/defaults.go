package config

import "strings"

// Provisioning defaults for an Arch Linux guest.
const (
	DefaultProvider           = "virtualbox"
	DefaultBox                = "archlinux/archlinux"
	DefaultHostname           = "archlinux"
	DefaultIP                 = "192.168.10.25"
	DefaultName               = "archlinux"
	DefaultMemory             = 2048
	DefaultCPUs               = 1
	DefaultNATDNSHostResolver = "on"
	DefaultNetmask            = "255.255.255.0"
	DefaultProtocol           = "tcp"
	DefaultDatabaseKind       = "mysql"

	// DHCP is the ip value that requests a DHCP-assigned private network.
	DHCP = "dhcp"
)

// Normalize resolves the effective value of every defaulted setting and writes
// it back, so later steps see the filled-in values. Calling it again is a no-op.
func (s *Settings) Normalize() {
	s.Provider = orDefault(s.Provider, DefaultProvider)
	s.Box = orDefault(s.Box, DefaultBox)
	s.Hostname = orDefault(s.Hostname, DefaultHostname)
	s.IP = orDefault(s.IP, DefaultIP)
	s.Name = orDefault(s.Name, DefaultName)
	s.NATDNSHostResolver = normalizeSwitch(s.NATDNSHostResolver, DefaultNATDNSHostResolver)

	if s.Memory <= 0 {
		s.Memory = DefaultMemory
	}
	if s.CPUs <= 0 {
		s.CPUs = DefaultCPUs
	}

	for i := range s.Networks {
		s.Networks[i].Netmask = orDefault(s.Networks[i].Netmask, DefaultNetmask)
	}

	if s.Ports == nil {
		s.Ports = []Port{}
	}
	for i := range s.Ports {
		s.Ports[i].Protocol = orDefault(s.Ports[i].Protocol, DefaultProtocol)
	}

	for i := range s.Databases {
		s.Databases[i].Kind = orDefault(strings.ToLower(s.Databases[i].Kind), DefaultDatabaseKind)
	}
}

// IsDHCP returns whether the primary network uses DHCP.
func (s *Settings) IsDHCP() bool {
	return s.IP == DHCP
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// normalizeSwitch maps the bool spellings a weakly typed decode can produce onto on/off.
func normalizeSwitch(value, def string) string {
	switch strings.ToLower(value) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return "on"
	case "0", "false", "no", "off":
		return "off"
	default:
		return value
	}
}
