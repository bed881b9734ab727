package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	s := &Settings{}
	s.Normalize()

	assert.Equal(t, "virtualbox", s.Provider)
	assert.Equal(t, "archlinux/archlinux", s.Box)
	assert.Equal(t, "archlinux", s.Hostname)
	assert.Equal(t, "192.168.10.25", s.IP)
	assert.Equal(t, "archlinux", s.Name)
	assert.Equal(t, 2048, s.Memory)
	assert.Equal(t, 1, s.CPUs)
	assert.Equal(t, "on", s.NATDNSHostResolver)
	assert.NotNil(t, s.Ports)
	assert.Empty(t, s.Ports)
	assert.False(t, s.IsDHCP())
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	s := &Settings{
		Provider: "libvirt",
		Box:      "archlinux/custom",
		Hostname: "dev",
		IP:       "dhcp",
		Name:     "devbox",
		Memory:   4096,
		CPUs:     4,
		Networks: []Network{{Type: "public_network", IP: "10.0.0.2", Netmask: "255.255.0.0"}, {Type: "private_network", IP: "10.1.0.2"}},
		Ports:    []Port{{Guest: 80, Host: 8080}, {Guest: 53, Host: 5353, Protocol: "udp"}},
		Databases: []Database{
			{Name: "a"},
			{Name: "b", Kind: "Postgres"},
		},
	}
	s.Normalize()

	assert.Equal(t, "libvirt", s.Provider)
	assert.Equal(t, "archlinux/custom", s.Box)
	assert.Equal(t, "dev", s.Hostname)
	assert.True(t, s.IsDHCP())
	assert.Equal(t, "devbox", s.Name)
	assert.Equal(t, 4096, s.Memory)
	assert.Equal(t, 4, s.CPUs)
	assert.Equal(t, "255.255.0.0", s.Networks[0].Netmask)
	assert.Equal(t, DefaultNetmask, s.Networks[1].Netmask)
	assert.Empty(t, s.Networks[1].Bridge)
	assert.Equal(t, "tcp", s.Ports[0].Protocol)
	assert.Equal(t, "udp", s.Ports[1].Protocol)
	assert.Equal(t, "mysql", s.Databases[0].Kind)
	assert.Equal(t, "postgres", s.Databases[1].Kind)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	s := &Settings{Ports: []Port{{Guest: 80, Host: 8080}}}
	s.Normalize()
	first := *s
	first.Ports = append([]Port(nil), s.Ports...)

	s.Normalize()
	assert.Equal(t, first, *s)
}

func TestNormalizeSwitch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "on"},
		{"on", "on"},
		{"true", "on"},
		{"1", "on"},
		{"off", "off"},
		{"false", "off"},
		{"0", "off"},
		{"OFF", "off"},
		{"maybe", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSwitch(tt.in, "on"))
		})
	}
}
