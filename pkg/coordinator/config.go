package coordinator

import (
	"fmt"
	"net"
	"os"
	"strconv"

	// Packages
	yaml "gopkg.in/yaml.v3"

	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Address locates one backend server.
type Address struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// Config is the coordinator's startup configuration: one backend address per
// content class, indexed by name.
type Config struct {
	ImageServer      Address `yaml:"image_server"`
	VideoServer      Address `yaml:"video_server"`
	TextServer       Address `yaml:"text_server"`
	SoundServer      Address `yaml:"sound_server"`
	CompressedServer Address `yaml:"compressed_server"`
}

// Registry is the static mapping from content class to backend address.
type Registry map[schema.Class]Address

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("config %q: %w", path, err)
	}
	return config, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// String returns the address in host:port form.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Valid returns true when the address names a host and port.
func (a Address) Valid() bool {
	return a.Host != "" && a.Port > 0 && a.Port < 0x10000
}

// Registry builds the class-to-address registry, or fails when any backend
// address is missing or malformed.
func (c Config) Registry() (Registry, error) {
	registry := Registry{
		schema.ClassImage:      c.ImageServer,
		schema.ClassVideo:      c.VideoServer,
		schema.ClassText:       c.TextServer,
		schema.ClassSound:      c.SoundServer,
		schema.ClassCompressed: c.CompressedServer,
	}
	for class, addr := range registry {
		if !addr.Valid() {
			return nil, fmt.Errorf("invalid address for %s_server: %q", class, addr)
		}
	}
	return registry, nil
}
