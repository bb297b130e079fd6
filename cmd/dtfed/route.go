package main

import (
	"context"
	"fmt"
	"io"
	"slices"
)

// runRoute 维护 redis 中的逻辑节点到物理节点路由表
func runRoute(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: route requires a subcommand: set, delete, list", errUsage)
	}
	sub := args[0]

	fs, configPath := newFlagSet("route " + sub)
	hint := fs.String("hint", "", "Route namespace, empty for the default table")
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	switch sub {
	case "set":
		if fs.NArg() != 2 {
			return fmt.Errorf("%w: route set <logical> <physical>", errUsage)
		}
	case "delete":
		if fs.NArg() == 0 {
			return fmt.Errorf("%w: route delete <logical>...", errUsage)
		}
	case "list":
	default:
		return fmt.Errorf("%w: unknown route subcommand %q", errUsage, sub)
	}

	return withApp(ctx, *configPath, appOptions{skipManager: true}, func(ctx context.Context, a *app) error {
		routes, err := a.requireRoutes()
		if err != nil {
			return err
		}

		switch sub {
		case "set":
			if err := routes.SetRoute(ctx, *hint, fs.Arg(0), fs.Arg(1)); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s -> %s\n", fs.Arg(0), fs.Arg(1))
		case "delete":
			if err := routes.DeleteRoute(ctx, *hint, fs.Args()...); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d route(s)\n", fs.NArg())
		case "list":
			table, err := routes.Routes(ctx, *hint)
			if err != nil {
				return err
			}
			logical := make([]string, 0, len(table))
			for k := range table {
				logical = append(logical, k)
			}
			slices.Sort(logical)
			for _, k := range logical {
				fmt.Fprintf(out, "%s -> %s\n", k, table[k])
			}
		}
		return nil
	})
}
