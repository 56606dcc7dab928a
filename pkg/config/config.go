// Copyright 2026 Statekit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config parses declarative transition specs from YAML. The core
// machine never validates its own configuration; misconfiguration is
// surfaced here, before an instance is built.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/statekit/transition/pkg/logger"
	"github.com/statekit/transition/pkg/transition"
)

var (
	// ErrMissingTimeout is returned when a spec has no timeout at all and
	// the caller supplies no end listener.
	ErrMissingTimeout = errors.New("timeout required when no end listener is supplied")

	// ErrMissingPhaseTimeout is returned when a per-phase timeout mapping
	// lacks the entry for an enabled phase.
	ErrMissingPhaseTimeout = errors.New("enabled phase has no timeout configured")
)

// TransitionSpec is the YAML shape of a single transition configuration.
// Enter and exit default to enabled when omitted.
type TransitionSpec struct {
	Name             string      `yaml:"name"`
	Shown            bool        `yaml:"shown"`
	MountOnFirstShow bool        `yaml:"mountOnFirstShow"`
	UnmountOnHide    bool        `yaml:"unmountOnHide"`
	Appear           bool        `yaml:"appear"`
	Enter            *bool       `yaml:"enter"`
	Exit             *bool       `yaml:"exit"`
	Timeout          TimeoutSpec `yaml:"timeout"`
}

// File is the YAML shape of a spec file.
type File struct {
	Transitions []TransitionSpec `yaml:"transitions"`
}

// TimeoutSpec decodes either a single scalar duration shared by all three
// phases, or a per-phase mapping with optional enter/exit/appear entries.
// Bare integers are read as milliseconds; strings go through
// time.ParseDuration.
type TimeoutSpec struct {
	transition.Timeouts
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TimeoutSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		d, err := decodeDuration(node)
		if err != nil {
			return err
		}
		t.Timeouts = transition.UniformTimeouts(d)
		return nil

	case yaml.MappingNode:
		var raw struct {
			Enter  *yaml.Node `yaml:"enter"`
			Exit   *yaml.Node `yaml:"exit"`
			Appear *yaml.Node `yaml:"appear"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}

		if raw.Enter != nil {
			d, err := decodeDuration(raw.Enter)
			if err != nil {
				return fmt.Errorf("enter: %w", err)
			}
			t.Enter = &d
		}
		if raw.Exit != nil {
			d, err := decodeDuration(raw.Exit)
			if err != nil {
				return fmt.Errorf("exit: %w", err)
			}
			t.Exit = &d
		}
		if raw.Appear != nil {
			d, err := decodeDuration(raw.Appear)
			if err != nil {
				return fmt.Errorf("appear: %w", err)
			}
			t.Appear = &d
		}
		return nil

	default:
		return fmt.Errorf("timeout must be a duration or a per-phase mapping, got %v", node.Kind)
	}
}

func decodeDuration(node *yaml.Node) (time.Duration, error) {
	var ms int64
	if err := node.Decode(&ms); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return 0, fmt.Errorf("invalid duration value: %w", err)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// Parse decodes a spec file from raw YAML.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse transition specs: %w", err)
	}
	return &file, nil
}

// ParseFile decodes a spec file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, err
	}

	logger.For(logger.ComponentConfigLoader).Debugf("Loaded %d transition specs from %s", len(file.Transitions), path)

	return file, nil
}

// Validate checks a spec against the constraints the core machine assumes:
// a timed completion must exist for every phase that can run, unless the
// caller supplies an end listener.
func (s *TransitionSpec) Validate(hasEndListener bool) error {
	if hasEndListener {
		return nil
	}

	if s.Timeout.IsZero() {
		return fmt.Errorf("transition %q: %w", s.Name, ErrMissingTimeout)
	}

	if s.enterEnabled() && s.Timeout.Enter == nil {
		return fmt.Errorf("transition %q, phase enter: %w", s.Name, ErrMissingPhaseTimeout)
	}
	if s.exitEnabled() && s.Timeout.Exit == nil {
		return fmt.Errorf("transition %q, phase exit: %w", s.Name, ErrMissingPhaseTimeout)
	}
	if s.Appear && s.Timeout.Appear == nil {
		return fmt.Errorf("transition %q, phase appear: %w", s.Name, ErrMissingPhaseTimeout)
	}

	return nil
}

// Props converts the spec into normalized machine props. Hooks and end
// listeners are code-level concerns and are attached by the caller.
func (s *TransitionSpec) Props() transition.Props {
	props := transition.DefaultProps()
	props.Shown = s.Shown
	props.MountOnFirstShow = s.MountOnFirstShow
	props.UnmountOnHide = s.UnmountOnHide
	props.Appear = s.Appear
	if s.Enter != nil {
		props.Enter = *s.Enter
	}
	if s.Exit != nil {
		props.Exit = *s.Exit
	}
	props.Timeouts = s.Timeout.Timeouts
	return props
}

func (s *TransitionSpec) enterEnabled() bool {
	return s.Enter == nil || *s.Enter
}

func (s *TransitionSpec) exitEnabled() bool {
	return s.Exit == nil || *s.Exit
}
