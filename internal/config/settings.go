package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/backstitch/internal/output"
)

// RepoFileName is the repo-local defaults file, read from the directory a
// command runs in.
const RepoFileName = ".backstitch.yaml"

// Settings are on-disk defaults for flag values. A flag the caller sets
// explicitly always wins; these only fill the gaps. Boolean fields are
// pointers so "false in a file" and "never mentioned" stay distinct
// across merge layers.
type Settings struct {
	Direction string `yaml:"direction"`
	Lenient   *bool  `yaml:"lenient"`
	Silent    *bool  `yaml:"silent"`
	Throttle  string `yaml:"throttle"`
	Message   string `yaml:"message"`
}

// Load assembles defaults from three layers, each overriding the last:
// the global config file ($configdir/config.yaml), the repo-local
// .backstitch.yaml in dir, then BACKSTITCH_* environment variables.
// Missing files are fine; malformed ones are not.
func Load(dir string) (*Settings, error) {
	s := &Settings{}
	if err := s.mergeFile(filepath.Join(Dir(), "config.yaml")); err != nil {
		return nil, err
	}
	if err := s.mergeFile(filepath.Join(dir, RepoFileName)); err != nil {
		return nil, err
	}
	if err := s.mergeEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return output.NewSystemErrorWithCause("cannot read config file "+path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var layer Settings
	if err := dec.Decode(&layer); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return output.NewUserErrorWithCause(fmt.Sprintf("invalid config file %s: %v", path, err), err)
	}
	s.overlay(&layer)
	return nil
}

func (s *Settings) overlay(layer *Settings) {
	if layer.Direction != "" {
		s.Direction = layer.Direction
	}
	if layer.Lenient != nil {
		s.Lenient = layer.Lenient
	}
	if layer.Silent != nil {
		s.Silent = layer.Silent
	}
	if layer.Throttle != "" {
		s.Throttle = layer.Throttle
	}
	if layer.Message != "" {
		s.Message = layer.Message
	}
}

func (s *Settings) mergeEnv() error {
	if v := os.Getenv("BACKSTITCH_DIRECTION"); v != "" {
		s.Direction = v
	}
	if v := os.Getenv("BACKSTITCH_THROTTLE"); v != "" {
		s.Throttle = v
	}
	if v := os.Getenv("BACKSTITCH_MESSAGE"); v != "" {
		s.Message = v
	}
	for _, b := range []struct {
		key  string
		dest **bool
	}{
		{key: "BACKSTITCH_LENIENT", dest: &s.Lenient},
		{key: "BACKSTITCH_SILENT", dest: &s.Silent},
	} {
		v := os.Getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return output.NewUserError(fmt.Sprintf("invalid %s value %q: want true or false", b.key, v))
		}
		*b.dest = &parsed
	}
	return nil
}
