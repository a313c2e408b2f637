// Command analyze inspects board configuration files. It validates them,
// lists the cells each unit can reach (as a table or CSV) and prints the path
// a unit would walk to a target cell.
//
//	analyze validate configs/*.yaml
//	analyze reach --unit knight configs/skirmish.yaml
//	analyze reach --csv configs/ridge.yaml > ridge.csv
//	analyze path --unit ranger --to 8,2 configs/ridge.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
)

// ReachRow is one reachable cell of one unit, as exported by reach --csv.
// On manhattan boards PathSteps can exceed the unit's range: the fill bounds
// cells by their distance from the origin, not by the steps walked around
// blockers.
type ReachRow struct {
	Unit      string `csv:"unit"`
	X         int    `csv:"x"`
	Y         int    `csv:"y"`
	Index     int64  `csv:"index"`
	Manhattan int    `csv:"manhattan"`
	PathSteps int    `csv:"path_steps"`
}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "analyze",
		Usage:  "inspect tactics board configurations",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate board configs (all of --dir when no files are given)",
				ArgsUsage: "[config...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: "configs", Usage: "directory scanned when no files are given"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files := cmd.Args().Slice()
					if len(files) == 0 {
						var err error
						if files, err = configFiles(cmd.String("dir")); err != nil {
							return err
						}
					}
					return validateConfigs(out, files)
				},
			},
			{
				Name:      "reach",
				Usage:     "list the cells each unit can reach",
				ArgsUsage: "<config>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "unit", Usage: "only this unit"},
					&cli.BoolFlag{Name: "csv", Usage: "write one CSV row per reachable cell"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 1 {
						return fmt.Errorf("reach needs exactly one config file")
					}
					board, err := loadEngine(cmd.Args().First())
					if err != nil {
						return err
					}
					rows, err := reachRows(board, engine.UnitID(cmd.String("unit")))
					if err != nil {
						return err
					}
					if cmd.Bool("csv") {
						return gocsv.Marshal(rows, out)
					}
					printReach(out, board, rows)
					return nil
				},
			},
			{
				Name:      "path",
				Usage:     "print the path a unit would walk to a cell",
				ArgsUsage: "<config>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "unit", Usage: "unit to move", Required: true},
					&cli.StringFlag{Name: "to", Usage: "target cell as x,y", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 1 {
						return fmt.Errorf("path needs exactly one config file")
					}
					target, err := parseCell(cmd.String("to"))
					if err != nil {
						return err
					}
					board, err := loadEngine(cmd.Args().First())
					if err != nil {
						return err
					}
					return printPath(out, board, engine.UnitID(cmd.String("unit")), target)
				},
			},
		},
	}
}

// configFiles lists the JSON and YAML files of dir
func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files in %s", dir)
	}
	return files, nil
}

func validateConfigs(out io.Writer, files []string) error {
	failed := 0
	for _, file := range files {
		cfg, err := engine.LoadBoardConfig(file)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", file, err)
			continue
		}
		fmt.Fprintf(out, "OK   %s: %s %dx%d, %d units, %s\n",
			file, cfg.Name, cfg.Width, cfg.Height, len(cfg.Units), cfg.Mode())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d configs invalid", failed, len(files))
	}
	return nil
}

func loadEngine(file string) (*engine.GameEngine, error) {
	cfg, err := engine.LoadBoardConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}
	return engine.NewEngine(cfg)
}

// reachRows lists the reachable cells of one unit, or of every unit when id
// is empty
func reachRows(board *engine.GameEngine, id engine.UnitID) ([]*ReachRow, error) {
	units := board.Units()
	if id != "" {
		u, ok := board.Unit(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", engine.ErrUnitNotFound, id)
		}
		units = []engine.Unit{u}
	}

	grid := board.Grid()
	var rows []*ReachRow
	for _, u := range units {
		cells, err := board.ReachableFor(u.ID)
		if err != nil {
			return nil, err
		}
		for _, cell := range cells {
			path, err := board.PathFor(u.ID, cell)
			if err != nil {
				return nil, err
			}
			rows = append(rows, &ReachRow{
				Unit:      string(u.ID),
				X:         cell.X,
				Y:         cell.Y,
				Index:     grid.CellIndex(cell),
				Manhattan: engine.ManhattanDistance(u.Cell, cell),
				PathSteps: len(path) - 1,
			})
		}
	}
	return rows, nil
}

func printReach(out io.Writer, board *engine.GameEngine, rows []*ReachRow) {
	cfg := board.GetConfig()
	fmt.Fprintf(out, "%s (%dx%d, %s)\n", cfg.Name, cfg.Width, cfg.Height, cfg.Mode())

	byUnit := make(map[string][]*ReachRow)
	for _, row := range rows {
		byUnit[row.Unit] = append(byUnit[row.Unit], row)
	}

	for _, u := range board.Units() {
		unitRows, ok := byUnit[string(u.ID)]
		if !ok {
			continue
		}
		detours := 0
		for _, row := range unitRows {
			if row.PathSteps > u.MoveRange {
				detours++
			}
		}

		// The origin is always reachable, so one cell means the unit cannot move
		fmt.Fprintf(out, "%-10s at %s range %d: %d cells", u.ID, u.Cell, u.MoveRange, len(unitRows))
		switch {
		case len(unitRows) <= 1:
			fmt.Fprint(out, " (cannot move)")
		case detours > 0:
			fmt.Fprintf(out, " (%d past range on foot)", detours)
		}
		fmt.Fprintln(out)
	}
}

func printPath(out io.Writer, board *engine.GameEngine, id engine.UnitID, target engine.Cell) error {
	u, ok := board.Unit(id)
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrUnitNotFound, id)
	}

	path, err := board.PathFor(id, target)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return fmt.Errorf("%s cannot reach %s from %s with range %d", id, target, u.Cell, u.MoveRange)
	}

	parts := make([]string, len(path))
	for i, c := range path {
		parts[i] = c.String()
	}
	fmt.Fprintf(out, "%s %s -> %s: %d steps\n%s\n", id, u.Cell, target, len(path)-1, strings.Join(parts, " "))
	return nil
}

// parseCell reads "x,y"
func parseCell(s string) (engine.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return engine.Cell{}, fmt.Errorf("cell must be x,y, got %q", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return engine.Cell{}, fmt.Errorf("cell must be x,y, got %q", s)
	}
	return engine.Cell{X: x, Y: y}, nil
}
