package ktransform

import (
	"fmt"
	"sort"
	"strconv"
)

// Well-known keys injected into every link's configuration view before the
// transformation is opened.
const (
	KeySubtaskIndex = "parallel.task.id"
	KeySubtaskCount = "parallel.task.count"
	KeyTaskName     = "parallel.task.name"
)

// Config is a string-keyed configuration blob. The zero value is not usable;
// create one with NewConfig.
type Config struct {
	values map[string]string
}

// NewConfig copies values into a new Config.
func NewConfig(values map[string]string) *Config {
	c := &Config{values: make(map[string]string, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Clone returns an independent copy. Cloning nil yields an empty Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return NewConfig(nil)
	}
	return NewConfig(c.values)
}

func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

func (c *Config) GetString(key, defaultValue string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return defaultValue
}

func (c *Config) SetString(key, value string) {
	c.values[key] = value
}

func (c *Config) GetInt(key string, defaultValue int) (int, error) {
	v, ok := c.values[key]
	if !ok {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, fmt.Errorf("config key %q: %w", key, err)
	}
	return i, nil
}

func (c *Config) SetInt(key string, value int) {
	c.values[key] = strconv.Itoa(value)
}

func (c *Config) GetBool(key string, defaultValue bool) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, fmt.Errorf("config key %q: %w", key, err)
	}
	return b, nil
}

// Keys returns all keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
