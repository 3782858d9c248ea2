package kdesc

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML descriptor and validates it. Unknown fields are
// rejected so that typos in link configuration surface at startup.
func Parse(r io.Reader) (*Descriptor, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Descriptor
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyChain
		}
		return nil, fmt.Errorf("decode chain descriptor: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Descriptor, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads and parses the descriptor file at path.
func Load(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes d as YAML.
func Marshal(d *Descriptor) ([]byte, error) {
	return yaml.Marshal(d)
}
