package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BaSui01/dtfed/types"
)

// runFeature 维护本地登记的 HTTP 特征表
func runFeature(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: feature requires a subcommand: add, delete, list", errUsage)
	}
	sub := args[0]

	fs, configPath := newFlagSet("feature " + sub)
	name := fs.String("name", "", "Feature table name")
	url := fs.String("url", "", "Feature service URL")
	description := fs.String("description", "", "Feature table description")
	status := fs.String("status", types.StatusAvailable, "Feature table status")
	columns := fs.String("columns", "", `Columns as JSON, e.g. [{"name":"age","type":"int"}]`)
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	switch sub {
	case "add", "delete":
		if fs.NArg() != 2 {
			return fmt.Errorf("%w: feature %s <node> <feature_table_id>", errUsage, sub)
		}
	case "list":
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: feature list <node>", errUsage)
		}
	default:
		return fmt.Errorf("%w: unknown feature subcommand %q", errUsage, sub)
	}

	var cols []types.TableColumn
	if sub == "add" && *columns != "" {
		if err := json.Unmarshal([]byte(*columns), &cols); err != nil {
			return fmt.Errorf("%w: invalid --columns: %v", errUsage, err)
		}
	}

	return withApp(ctx, *configPath, appOptions{skipManager: true}, func(ctx context.Context, a *app) error {
		repo, err := a.requireFeatures()
		if err != nil {
			return err
		}

		switch sub {
		case "add":
			f := types.FeatureTable{
				NodeID:         fs.Arg(0),
				FeatureTableID: fs.Arg(1),
				Name:           *name,
				Description:    *description,
				URL:            *url,
				Status:         *status,
				Columns:        cols,
			}
			if err := repo.Save(ctx, f); err != nil {
				return err
			}
			return writeJSON(out, f)
		case "delete":
			if err := repo.Delete(ctx, fs.Arg(0), fs.Arg(1)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %s/%s\n", fs.Arg(0), fs.Arg(1))
		case "list":
			list, err := repo.FindByNodeID(ctx, fs.Arg(0))
			if err != nil {
				return err
			}
			return writeJSON(out, list)
		}
		return nil
	})
}
