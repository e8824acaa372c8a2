package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pianoviz/apiserver"
	"pianoviz/config"
	"pianoviz/midiparser"
	"pianoviz/notes"
	"pianoviz/player"
	"pianoviz/session"
	"pianoviz/videogenerator"
	"pianoviz/watcher"
)

type globalFlags struct {
	config   string
	logLevel string
	logJSON  bool
}

type app struct {
	flags globalFlags
	log   *logrus.Logger
	cfg   *config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{log: logrus.New()}
	a.log.SetOutput(out)
	root := &cobra.Command{
		Use:           "pianoviz",
		Short:         "Piano-roll replay of recorded performances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "config file (default ~/.config/pianoviz/config.json)")
	pf.StringVar(&a.flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVar(&a.flags.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(a.renderCmd(), a.serveCmd(), a.notesCmd())
	return root
}

func (a *app) setup() error {
	lvl, err := logrus.ParseLevel(a.flags.logLevel)
	if err != nil {
		return err
	}
	a.log.SetLevel(lvl)
	if a.flags.logJSON {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if a.flags.config != "" {
		a.cfg, err = config.LoadFile(a.flags.config)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	return nil
}

func (a *app) renderCmd() *cobra.Command {
	var (
		resolution string
		fps        int
		output     string
		keepFrames bool
		noAudio    bool
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a recording to an mp4 video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(cmd.Flags(), a.cfg, resolution, fps); err != nil {
				return err
			}
			o := videogenerator.OptionsFromConfig(a.cfg, args[0])
			o.Output = output
			o.Debug = debug
			if cmd.Flags().Changed("keep-frames") {
				o.KeepFrames = keepFrames
			}
			if noAudio {
				o.Audio = false
			}
			res, err := videogenerator.New(a.log).Generate(cmd.Context(), o)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&resolution, "resolution", "r", "", "video resolution, a preset such as 1080p or WxH")
	f.IntVar(&fps, "fps", 0, "frames per second")
	f.StringVarP(&output, "output", "o", "", "output file")
	f.BoolVar(&keepFrames, "keep-frames", false, "keep the rendered PNG frames")
	f.BoolVar(&noAudio, "no-audio", false, "render without a soundtrack")
	f.BoolVar(&debug, "debug", false, "stamp frame numbers on the frames")
	return cmd
}

// applyFlags overrides the video settings of cfg with explicitly set flags.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config, resolution string, fps int) error {
	if fs.Changed("resolution") {
		cfg.Video.Resolution = resolution
	}
	if fs.Changed("fps") {
		cfg.Video.FPS = fps
	}
	return cfg.Validate()
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a live preview of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if noWatch {
				a.cfg.Server.Watch = false
			}
			return a.serve(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address to serve from")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the file when it changes")
	return cmd
}

func (a *app) serve(ctx context.Context, path string) error {
	p := midiparser.New(a.log)
	rec, err := p.Load(path)
	if err != nil {
		return err
	}
	ses := session.New(rec, a.cfg.SessionOptions(), a.log)
	defer ses.Close()
	pl := player.New(ses.Duration(), a.cfg.PlayerOptions(), a.log)
	res := a.cfg.ServerResolution()
	srv := apiserver.New(ses, pl, apiserver.Options{Width: res.Width(), Height: res.Height()}, a.log)

	l, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return err
	}
	defer l.Close()

	if a.cfg.Server.Watch {
		updates, err := watcher.Watch(ctx, path, p.Load, a.log)
		if err != nil {
			return err
		}
		go func() {
			for u := range updates {
				if u.Err != nil {
					a.log.WithError(u.Err).Error("reload failed")
					continue
				}
				srv.Reload(u.Recording)
			}
		}()
	}
	return srv.Run(ctx, l)
}

func (a *app) notesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "notes <file>",
		Short: "Print the reconstructed notes and anomalies of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := midiparser.New(a.log).Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(midiparser.NewDocument(rec))
			}
			return printNotes(out, rec, a.log)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the recording as a JSON document")
	return cmd
}

func printNotes(w io.Writer, rec notes.Recording, log logrus.FieldLogger) error {
	r := notes.Reconstruct(rec.Events, log)
	ns := append([]notes.Note(nil), r.Notes...)
	notes.SortByOnTime(ns)
	fmt.Fprintf(w, "%s: %d notes, %.3fs\n", rec.Name, len(ns), max(rec.Duration, r.Duration))
	for _, n := range ns {
		fmt.Fprintf(w, "%-4s %9.3f %9.3f %4d\n", notes.NoteName(n.Pitch), n.OnTime, n.OffTime, n.Velocity)
	}
	for _, an := range r.Anomalies {
		fmt.Fprintf(w, "anomaly: %s pitch=%d time=%.3f event=%d\n", an.Kind, an.Pitch, an.Time, an.Index)
	}
	return nil
}

func mainE() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := newRootCmd(os.Stderr).ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	if err := mainE(); err != nil {
		logrus.Errorln("Error:", err)
		os.Exit(1)
	}
}
