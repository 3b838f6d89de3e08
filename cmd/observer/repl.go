package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/demo"
	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/inspect"
	"github.com/vango-dev/observer/pkg/loop"
	"github.com/vango-dev/observer/pkg/snapshot"
)

func replCmd() *cobra.Command {
	var serveAddr string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Drive the thermostat interactively",
		Long: `Open a prompt over the thermostat screen. Type 'help' for commands.

With --serve the inspector runs alongside, so changes made over HTTP
show up at the prompt (see 'watch on') and the other way round.

Examples:
  observer repl
  observer repl --serve=localhost:7070`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(serveAddr)
		},
	}

	cmd.Flags().StringVar(&serveAddr, "serve", "", "Also run the inspector on this address")

	return cmd
}

func runREPL(serveAddr string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "observer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    replCompleter(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	e, err := setupEngine(rl.Stderr())
	if err != nil {
		return err
	}

	l := loop.New(loop.Config{Logger: e.logger})
	loopErr := make(chan error, 1)
	go func() { loopErr <- l.Run(context.Background()) }()
	defer func() {
		l.Stop()
		<-loopErr
	}()

	var c *console
	if err := l.Call(context.Background(), func() {
		c = newConsole(demo.NewThermostat(e.logger), rl.Stdout())
	}); err != nil {
		return err
	}
	if archive, err := openArchive(context.Background(), e.cfg); err == nil {
		c.archive = archive
	} else {
		warn("Snapshots disabled: %v", err)
	}

	if serveAddr != "" {
		srv := inspect.NewServer(c.thermostat.Registry, l,
			inspect.WithLogger(e.logger),
			inspect.WithAllowedOrigins(e.cfg.Inspector.AllowedOrigins...))
		if err := srv.Start(context.Background()); err != nil {
			return err
		}
		defer srv.Close()
		httpServer := &http.Server{Addr: serveAddr, Handler: srv, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.logger.Error("inspector stopped", "error", err)
			}
		}()
		defer httpServer.Close()
		success("Inspector listening on http://%s", serveAddr)
	}

	c.printHelp()
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			break
		}

		quit := false
		if err := l.Call(context.Background(), func() { quit = c.exec(line) }); err != nil {
			fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			break
		}
	}

	if c.stopWatch != nil {
		_ = l.Call(context.Background(), c.stopWatch)
	}
	return nil
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("click"),
		readline.PcItem("drag"),
		readline.PcItem("select"),
		readline.PcItem("delete"),
		readline.PcItem("status"),
		readline.PcItem("watch", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("snapshot", readline.PcItem("save"), readline.PcItem("load")),
		readline.PcItem("quit"),
	)
}

// console executes REPL commands. Every method runs on the loop.
type console struct {
	thermostat *demo.Thermostat
	out        io.Writer
	archive    *snapshot.Archive
	stopWatch  func()
}

func newConsole(t *demo.Thermostat, out io.Writer) *console {
	if out == nil {
		out = os.Stdout
	}
	return &console{thermostat: t, out: out}
}

// exec runs one command line and reports whether the REPL should quit.
func (c *console) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		c.printHelp()
	case "list", "ls":
		c.cmdList()
	case "get", "g":
		err = c.cmdGet(args)
	case "set", "s":
		err = c.cmdSet(line, args)
	case "click":
		err = c.cmdClick(args)
	case "drag":
		err = c.cmdDrag(args)
	case "select":
		err = c.cmdSelect(args)
	case "delete":
		err = c.cmdDelete(args)
	case "status":
		fmt.Fprintln(c.out, c.thermostat.Status())
	case "watch":
		err = c.cmdWatch(args)
	case "snapshot", "snap":
		err = c.cmdSnapshot(args)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		var oe *obserrors.ObserverError
		if errors.As(err, &oe) {
			fmt.Fprintln(c.out, oe.FormatCompact())
		} else {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return false
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out, `
Observer Commands:
  Subjects:
    list                   - List subjects and their values
    get <name>             - Describe one subject
    set <name> <value>     - Assign a value (int, float, #rrggbb or text)
    watch on|off           - Print every notification

  Widgets:
    click <widget>         - Click a widget (up, down, eco, power)
    drag <widget> <value>  - Drag the slider or gauge
    select <widget> <i>    - Select an option of the mode dropdown
    delete <widget>        - Delete a widget and its bindings
    status                 - Show the screen

  Snapshots:
    snapshot save <name>   - Store the current values
    snapshot load <name>   - Restore stored values

  Other:
    help                   - Show this help
    quit                   - Exit`)
}

func (c *console) cmdList() {
	for _, info := range c.thermostat.Registry.DescribeAll() {
		fmt.Fprintf(c.out, "  %-10s %-7s %-16s observers=%d\n", info.Name, info.Kind, info.Value, info.Observers)
	}
}

func (c *console) cmdGet(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <name>")
	}
	info, err := c.thermostat.Registry.Describe(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "  name:      %s\n  kind:      %s\n  value:     %s\n  previous:  %s\n  observers: %d\n",
		info.Name, info.Kind, info.Value, info.Previous, info.Observers)
	if len(info.Members) > 0 {
		fmt.Fprintf(c.out, "  members:   %s\n", strings.Join(info.Members, ", "))
	}
	return nil
}

// cmdSet keeps the rest of the line verbatim so string values may hold
// spaces.
func (c *console) cmdSet(line string, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set <name> <value>")
	}
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(rest[len(strings.Fields(rest)[0]):])
	value := strings.TrimSpace(rest[len(args[0]):])
	if err := c.thermostat.Registry.Assign(args[0], value); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "  %s = %s\n", args[0], value)
	return nil
}

func (c *console) cmdClick(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: click <widget>")
	}
	obj := c.thermostat.Find(args[0])
	if obj == nil {
		return fmt.Errorf("no widget named %q", args[0])
	}
	obj.Click()
	fmt.Fprintln(c.out, c.thermostat.Status())
	return nil
}

func (c *console) cmdDrag(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: drag <widget> <value>")
	}
	v, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("drag: %w", err)
	}
	t := c.thermostat
	switch args[0] {
	case t.Slider.Name():
		t.Slider.Drag(int32(v))
	case t.Gauge.Name():
		t.Gauge.Drag(int32(v))
	default:
		return fmt.Errorf("%q cannot be dragged (try %s or %s)", args[0], t.Slider.Name(), t.Gauge.Name())
	}
	fmt.Fprintln(c.out, t.Status())
	return nil
}

func (c *console) cmdSelect(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: select <widget> <index>")
	}
	i, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	t := c.thermostat
	if args[0] != t.ModeList.Name() {
		return fmt.Errorf("%q has no options (try %s)", args[0], t.ModeList.Name())
	}
	t.ModeList.Select(int32(i))
	fmt.Fprintln(c.out, t.Status())
	return nil
}

func (c *console) cmdDelete(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <widget>")
	}
	obj := c.thermostat.Find(args[0])
	if obj == nil {
		return fmt.Errorf("no widget named %q", args[0])
	}
	obj.Delete()
	fmt.Fprintf(c.out, "  deleted %s\n", args[0])
	return nil
}

func (c *console) cmdWatch(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: watch on|off")
	}
	switch args[0] {
	case "on":
		if c.stopWatch != nil {
			return nil
		}
		first := true
		c.stopWatch = c.thermostat.Registry.Watch(func(ev inspect.ChangeEvent) {
			if first {
				return
			}
			fmt.Fprintf(c.out, "  [%d] %s: %s -> %s\n", ev.Seq, ev.Subject, ev.Previous, ev.Value)
		})
		first = false
	case "off":
		if c.stopWatch != nil {
			c.stopWatch()
			c.stopWatch = nil
		}
	default:
		return errors.New("usage: watch on|off")
	}
	return nil
}

func (c *console) cmdSnapshot(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: snapshot save|load <name>")
	}
	if c.archive == nil {
		return errors.New("snapshots are not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch args[0] {
	case "save":
		snap := snapshot.Capture(c.thermostat.Registry)
		if err := c.archive.Save(ctx, args[1], snap); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "  saved %d values as %s\n", len(snap.Values), c.archive.Key(args[1]))
	case "load":
		snap, err := c.archive.Load(ctx, args[1])
		if err != nil {
			return err
		}
		if err := snapshot.Apply(c.thermostat.Registry, snap); err != nil {
			fmt.Fprintf(c.out, "  some values were skipped: %v\n", err)
		}
		fmt.Fprintln(c.out, c.thermostat.Status())
	default:
		return errors.New("usage: snapshot save|load <name>")
	}
	return nil
}
