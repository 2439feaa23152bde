package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrUnknownCommand is returned by Execute for a name nothing was registered under.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned for missing or malformed arguments.
	ErrUsage = errors.New("usage")
)

// Command is a console command with optional flags. Run receives the positional arguments left
// after flag parsing and returns a line to echo.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) (string, error)
}

// Registry holds commands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns a registry with only the built-in "help" command.
func NewRegistry() *Registry {
	r := &Registry{cmds: make(map[string]*Command)}
	r.Register("help", "help [command]", nil, r.help)
	return r
}

// Register adds a command. fs may be nil for commands without flags.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) (string, error)) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Parse splits a console line into tokens. A leading "/" is accepted and dropped.
// ok is false for blank lines.
func Parse(line string) (args []string, ok bool) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "/")
	args = strings.Fields(line)
	return args, len(args) > 0
}

// Execute runs the command in args[0] with args[1:] as flag and positional arguments.
func (r *Registry) Execute(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("commands: missing command: %w", ErrUsage)
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return "", fmt.Errorf("commands: %s: %w", args[0], ErrUnknownCommand)
	}
	// Flags keep their values between runs unless reset.
	cmd.FlagSet.VisitAll(func(f *flag.Flag) { _ = f.Value.Set(f.DefValue) })
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return "", fmt.Errorf("commands: %s: %v: %w", cmd.Name, err, ErrUsage)
	}
	out, err := cmd.Run(cmd.FlagSet.Args())
	if errors.Is(err, ErrUsage) {
		return out, fmt.Errorf("%w: %s", err, cmd.Usage)
	}
	return out, err
}

func (r *Registry) help(args []string) (string, error) {
	if len(args) > 0 {
		cmd, ok := r.cmds[args[0]]
		if !ok {
			return "", fmt.Errorf("commands: %s: %w", args[0], ErrUnknownCommand)
		}
		return cmd.Usage, nil
	}
	return strings.Join(r.Names(), " "), nil
}

// Float parses args[i] as a number, reporting ErrUsage when it is missing or malformed.
func Float(args []string, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing %s: %w", name, ErrUsage)
	}
	v, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, args[i], ErrUsage)
	}
	return v, nil
}

// Arg returns args[i], reporting ErrUsage when it is missing.
func Arg(args []string, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing %s: %w", name, ErrUsage)
	}
	return args[i], nil
}

// Bool parses an on/off style argument.
func Bool(args []string, i int, name string) (bool, error) {
	s, err := Arg(args, i, name)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("bad %s %q: %w", name, s, ErrUsage)
}
