// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rc := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(rc)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		viper:  viper.New(),
	}

	rc := 0
	conjureCmd := &cobra.Command{
		Use:           "conjure [options] COMMAND",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	conjureCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(stderr, conjureCmd.UsageString())
		rc = 1
		return nil
	}
	a.globalFlags(conjureCmd.PersistentFlags())

	commands := []command{
		&cmdCompile{app: a},
		&cmdCodegen{app: a},
		&cmdVersion{app: a},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(c *cobra.Command, args []string) error {
				if err := a.loadConfig(c.Flags()); err != nil {
					fmt.Fprintln(stderr, err)
					rc = 1
					return nil
				}
				rc = cmd.run(ctx, args)
				return nil
			},
		}
		conjureCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	conjureCmd.SetArgs(args)
	conjureCmd.SetOut(stdout)
	conjureCmd.SetErr(stderr)
	if err := conjureCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return rc
}
