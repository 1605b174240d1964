package tabelle

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/grid"
)

// CommandKind names an editor command.
type CommandKind string

const (
	CommandNone   CommandKind = "none"
	CommandHelp   CommandKind = "help"
	CommandNew    CommandKind = "new"
	CommandSet    CommandKind = "set"
	CommandSave   CommandKind = "save"
	CommandFind   CommandKind = "find"
	CommandSort   CommandKind = "sort"
	CommandFit    CommandKind = "fit"
	CommandFix    CommandKind = "fix"
	CommandResize CommandKind = "resize"
)

// SetColumnWidth is the only key accepted by "set".
const SetColumnWidth = "column-width"

// NewGridSize is the width and height of the grid created by "new".
const NewGridSize = 5

var (
	// ErrUnknownCommand indicates text that is not a command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArgument indicates a command argument that does not parse.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoMatch is returned by "find" when no text cell matches.
	ErrNoMatch = errors.New("no match")
)

// Command is a parsed editor command. Column is used by sort and fit, Rows
// by fix, Width and Height by resize and set, Text by find and Path by save.
type Command struct {
	Kind   CommandKind
	Key    string
	Column int
	Rows   int
	Width  int
	Height int
	Text   string
	Path   string
}

// ParseCommand parses one command line. Words are separated by single
// spaces; column arguments are case-insensitive.
func ParseCommand(text string) (Command, error) {
	switch text {
	case "":
		return Command{Kind: CommandNone}, nil
	case "help":
		return Command{Kind: CommandHelp}, nil
	case "new":
		return Command{Kind: CommandNew}, nil
	}

	parts := strings.Split(text, " ")
	switch {
	case len(parts) == 3 && parts[0] == "set":
		if parts[1] != SetColumnWidth {
			return Command{}, fmt.Errorf("%w: set %q", ErrInvalidArgument, parts[1])
		}
		width, err := parseCount(parts[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandSet, Key: SetColumnWidth, Width: width}, nil
	case len(parts) == 2 && parts[0] == "save":
		return Command{Kind: CommandSave, Path: parts[1]}, nil
	case len(parts) == 2 && parts[0] == "find":
		return Command{Kind: CommandFind, Text: parts[1]}, nil
	case len(parts) == 2 && (parts[0] == "sort" || parts[0] == "fit"):
		column, err := address.ColumnIndex(parts[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: column %q", ErrInvalidArgument, parts[1])
		}
		return Command{Kind: CommandKind(parts[0]), Column: column}, nil
	case len(parts) == 3 && parts[0] == "fix" && parts[2] == "rows":
		rows, err := parseCount(parts[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandFix, Rows: rows}, nil
	case len(parts) == 3 && parts[0] == "fix" && parts[1] == "1" && parts[2] == "row":
		return Command{Kind: CommandFix, Rows: 1}, nil
	case len(parts) == 3 && parts[0] == "resize":
		width, err := parseCount(parts[1])
		if err != nil {
			return Command{}, err
		}
		height, err := parseCount(parts[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandResize, Width: width, Height: height}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, text)
}

func parseCount(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a count", ErrInvalidArgument, s)
	}
	return int(n), nil
}

// FullDisplay renders c as the command line that parses back to it.
func (c Command) FullDisplay() string {
	switch c.Kind {
	case CommandSet:
		return fmt.Sprintf("%s %s %d", c.Kind, c.Key, c.Width)
	case CommandSave:
		return fmt.Sprintf("%s %s", c.Kind, c.Path)
	case CommandFind:
		return fmt.Sprintf("%s %s", c.Kind, c.Text)
	case CommandSort, CommandFit:
		return fmt.Sprintf("%s %s", c.Kind, address.ColumnName(c.Column))
	case CommandFix:
		if c.Rows == 1 {
			return fmt.Sprintf("%s 1 row", c.Kind)
		}
		return fmt.Sprintf("%s %d rows", c.Kind, c.Rows)
	case CommandResize:
		return fmt.Sprintf("%s %d %d", c.Kind, c.Width, c.Height)
	case CommandNone:
		return ""
	}
	return string(c.Kind)
}

// Commands returns an example of every command, in help order.
func Commands() []Command {
	return []Command{
		{Kind: CommandHelp},
		{Kind: CommandNew},
		{Kind: CommandSet, Key: SetColumnWidth, Width: grid.DefaultColumnWidth},
		{Kind: CommandSave, Path: "table.xlsx"},
		{Kind: CommandFind, Text: "mouse"},
		{Kind: CommandSort},
		{Kind: CommandFit},
		{Kind: CommandFix, Rows: 1},
		{Kind: CommandResize, Width: NewGridSize, Height: NewGridSize},
	}
}

// Help describes what c does.
func (c Command) Help() string {
	switch c.Kind {
	case CommandHelp:
		return "Lists every command with an example."
	case CommandNew:
		return "Replaces the grid with an empty 5x5 grid. Unsaved changes are lost."
	case CommandSet:
		return "Sets a key for the column under the cursor. The only key is column-width."
	case CommandSave:
		return "Saves the grid. The extension selects the format: .xlsx or .csv."
	case CommandFind:
		return "Moves the cursor to the next text cell containing the text, wrapping around."
	case CommandSort:
		return "Sorts the rows below the fixed rows by a column: text, then numbers, then empty cells."
	case CommandFit:
		return "Sets the width of a column to fit its widest content."
	case CommandFix:
		return "Called as `fix 1 row` or `fix 5 rows`. Pins rows to the top; they are not sorted."
	case CommandResize:
		return "Grows the grid to the given number of columns and rows."
	}
	return ""
}

// Session is the state commands act on.
type Session struct {
	Grid    *grid.Grid
	Options Options
	// Out receives the output of "help". If nil, help is discarded.
	Out io.Writer
}

// Execute runs c against s.
func (c Command) Execute(s *Session) error {
	g := s.Grid
	log := s.Options.logger()
	log.Debug("execute", "command", c.FullDisplay())

	switch c.Kind {
	case CommandNone:
		return nil
	case CommandHelp:
		if s.Out == nil {
			return nil
		}
		for _, example := range Commands() {
			if _, err := fmt.Fprintf(s.Out, "%-24s %s\n", example.FullDisplay(), example.Help()); err != nil {
				return err
			}
		}
		return nil
	case CommandNew:
		s.Grid = grid.New(NewGridSize, NewGridSize)
		s.Grid.SetEvaluator(s.Options.Evaluator)
		return nil
	case CommandSet:
		return g.SetColumnWidth(g.Cursor().Column, c.Width)
	case CommandSave:
		return Save(g, c.Path, s.Options)
	case CommandFind:
		if _, ok := g.Find(c.Text); !ok {
			return fmt.Errorf("%w: %q", ErrNoMatch, c.Text)
		}
		return nil
	case CommandSort:
		if err := g.SortColumn(c.Column); err != nil {
			return err
		}
		finish(g, s.Options)
		return nil
	case CommandFit:
		return g.FitColumnWidth(c.Column)
	case CommandFix:
		g.FixRows(c.Rows)
		return nil
	case CommandResize:
		return g.Resize(c.Width, c.Height)
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, c.Kind)
}
