// Copyright The libvcmmd Authors. All Rights Reserved.
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

package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/openvz/libvcmmd-go/pkg/vcmmd/config"
)

var (
	optConfigFile string
	optGuarantee  uint64
	optLimit      uint64
	optSwap       uint64
	optVRAM       uint64
	optNodeList   string
	optCPUList    string
)

// configSpec is the YAML shape accepted by --config. Absent fields
// keep their current daemon-side value.
type configSpec struct {
	Guarantee *uint64 `json:"guarantee,omitempty"`
	Limit     *uint64 `json:"limit,omitempty"`
	Swap      *uint64 `json:"swap,omitempty"`
	VRAM      *uint64 `json:"vram,omitempty"`
	NodeList  *string `json:"nodeList,omitempty"`
	CPUList   *string `json:"cpuList,omitempty"`
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&optConfigFile, "config", "",
		"YAML file with the VE configuration. Mutually exclusive with the per-parameter flags.")
	cmd.Flags().Uint64Var(&optGuarantee, "guarantee", 0,
		"VE memory guarantee, in bytes.")
	cmd.Flags().Uint64Var(&optLimit, "limit", 0,
		"VE memory limit, in bytes.")
	cmd.Flags().Uint64Var(&optSwap, "swap", 0,
		"VE swap hard limit, in bytes.")
	cmd.Flags().Uint64Var(&optVRAM, "vram", 0,
		"VE video adapter memory, in bytes.")
	cmd.Flags().StringVar(&optNodeList, "node-list", "",
		"Host NUMA nodes the VE is allowed on.")
	cmd.Flags().StringVar(&optCPUList, "cpu-list", "",
		"Host CPUs the VE is allowed on.")
}

// configFromCommand builds the VE configuration for a command, either
// from the given YAML file or from the per-parameter flags.
func configFromCommand(cmd *cobra.Command) (*config.Config, error) {
	if optConfigFile != "" {
		return configFromFile(optConfigFile)
	}
	return configFromFlags(cmd)
}

func configFromFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	spec := configSpec{}
	if err := yaml.UnmarshalStrict(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := config.New()
	var errs *multierror.Error

	appendUint := func(key config.Key, value *uint64) {
		if value == nil {
			return
		}
		if err := cfg.Append(key, *value); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	appendString := func(key config.Key, value *string) {
		if value == nil {
			return
		}
		if err := cfg.AppendString(key, *value); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	appendUint(config.KeyGuarantee, spec.Guarantee)
	appendUint(config.KeyLimit, spec.Limit)
	appendUint(config.KeySwap, spec.Swap)
	appendUint(config.KeyVRAM, spec.VRAM)
	appendString(config.KeyNodeList, spec.NodeList)
	appendString(config.KeyCPUList, spec.CPUList)

	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func configFromFlags(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()
	var errs *multierror.Error

	flags := cmd.Flags()
	for _, p := range []struct {
		name  string
		key   config.Key
		value *uint64
	}{
		{"guarantee", config.KeyGuarantee, &optGuarantee},
		{"limit", config.KeyLimit, &optLimit},
		{"swap", config.KeySwap, &optSwap},
		{"vram", config.KeyVRAM, &optVRAM},
	} {
		if !flags.Changed(p.name) {
			continue
		}
		if err := cfg.Append(p.key, *p.value); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	for _, p := range []struct {
		name  string
		key   config.Key
		value *string
	}{
		{"node-list", config.KeyNodeList, &optNodeList},
		{"cpu-list", config.KeyCPUList, &optCPUList},
	} {
		if !flags.Changed(p.name) {
			continue
		}
		if err := cfg.AppendString(p.key, *p.value); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid configuration flags: %w", err)
	}
	return cfg, nil
}
