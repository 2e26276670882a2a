// Command cellbox-demo draws a full-gamut gradient and plays a sine tone whose
// pitch follows the mouse. Esc exits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	session    string
	backend    string
	rate       int
	noAudio    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "cellbox-demo",
		Short: "Gradient and sine-tone demo for the cellbox engine",
		Long: "cellbox-demo renders a truecolor gradient (x = red, y = green, time = blue)\n" +
			"and synthesises a 200-1000 Hz tone controlled by the mouse X position.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "cellbox.toml", "config file (missing file uses defaults)")
	f.StringVar(&opts.session, "session", "", "terminal session: auto, ansi, tcell")
	f.StringVar(&opts.backend, "audio", "", "audio backend: auto, oto, beep, pipe, none")
	f.IntVar(&opts.rate, "rate", 44100, "audio sample rate")
	f.BoolVar(&opts.noAudio, "no-audio", false, "disable audio")
	f.BoolVar(&opts.debug, "debug", false, "write a debug log to "+logDir)

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
