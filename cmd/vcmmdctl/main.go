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

// vcmmdctl is a thin command line client for the vcmmd daemon. It
// issues a single request per invocation and renders the outcome; all
// policy decisions stay with the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	logger "github.com/openvz/libvcmmd-go/pkg/log"
	"github.com/openvz/libvcmmd-go/pkg/vcmmd"
)

var (
	optType  string
	optForce bool
	optDebug bool
)

func main() {
	root := &cobra.Command{
		Use:           "vcmmdctl",
		Short:         "Control and inspect the vcmmd memory-management daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if optDebug {
				logger.EnableDebug("*", true)
			}
		},
	}
	root.PersistentFlags().BoolVar(&optDebug, "debug", false,
		"Enable debug logging for all sources.")

	register := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a VE with the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			veType, err := vcmmd.ParseType(optType)
			if err != nil {
				return err
			}
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			return vcmmd.RegisterVE(args[0], veType, cfg, forceOption()...)
		},
	}
	register.Flags().StringVar(&optType, "type", "CT",
		"VE type: CT, VM, VM_LINUX or VM_WINDOWS.")
	addConfigFlags(register)
	addForceFlag(register)

	update := &cobra.Command{
		Use:   "update <name>",
		Short: "Update the configuration of an active VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			return vcmmd.UpdateVE(args[0], cfg, forceOption()...)
		},
	}
	addConfigFlags(update)
	addForceFlag(update)

	activate := &cobra.Command{
		Use:   "activate <name>",
		Short: "Let the daemon start managing a registered VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return vcmmd.ActivateVE(args[0], forceOption()...)
		},
	}
	addForceFlag(activate)

	commit := &cobra.Command{
		Use:   "commit <name>",
		Short: "Commit the pending configuration of a registered VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return vcmmd.CommitVE(args[0])
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <name>",
		Short: "Stop the daemon from managing an active VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return vcmmd.DeactivateVE(args[0])
		},
	}

	unregister := &cobra.Command{
		Use:   "unregister <name>",
		Short: "Make the daemon forget about a VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return vcmmd.UnregisterVE(args[0])
		},
	}

	getConfig := &cobra.Command{
		Use:   "config <name>",
		Short: "Show the configuration the daemon holds for a VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := vcmmd.GetVEConfig(args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}

	state := &cobra.Command{
		Use:   "state <name>",
		Short: "Show the daemon-side state of a VE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := vcmmd.GetVEState(args[0])
			if err != nil {
				return err
			}
			fmt.Println(s)
			return nil
		},
	}

	policy := &cobra.Command{
		Use:   "policy [name]",
		Short: "Show the daemon policy, or switch to the named one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return vcmmd.SwitchPolicy(args[0])
			}

			current, err := vcmmd.GetCurrentPolicy()
			if err != nil {
				return err
			}
			configured, err := vcmmd.GetPolicyFromFile()
			if err != nil {
				return err
			}
			fmt.Printf("current: %s\n", current)
			fmt.Printf("configured: %s\n", configured)
			return nil
		},
	}

	root.AddCommand(register, update, activate, commit, deactivate,
		unregister, getConfig, state, policy)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vcmmdctl: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func addForceFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&optForce, "force", false,
		"Override guarantee-satisfiability checks.")
}

func forceOption() []vcmmd.CallOption {
	if optForce {
		return []vcmmd.CallOption{vcmmd.WithForce()}
	}
	return nil
}

// exitCode maps an operation outcome to a process exit code: service
// rejections exit with the service code, local failures with 1.
func exitCode(err error) int {
	if code := vcmmd.CodeOf(err); code.IsServiceCode() {
		return int(code)
	}
	return 1
}
