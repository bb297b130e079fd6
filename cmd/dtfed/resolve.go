package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/dtfed/datatable"
	"github.com/BaSui01/dtfed/internal/ctxkeys"
	"github.com/BaSui01/dtfed/types"
)

// =============================================================================
// 解析命令
// =============================================================================

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Path to config file")
	return fs, configPath
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// withApp 加载配置、装配组件并在 fn 返回后释放
func withApp(ctx context.Context, configPath string, opts appOptions, fn func(context.Context, *app) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := initLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	// 同一次命令的远端调用共用一个请求 ID
	requestID := uuid.NewString()
	ctx = ctxkeys.WithRequestID(ctx, requestID)
	logger = logger.With(zap.String("request_id", requestID))

	a, err := newApp(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer a.close(ctx)
	return fn(ctx, a)
}

func runResolve(ctx context.Context, cmd string, args []string, out io.Writer) error {
	fs, configPath := newFlagSet(cmd)
	project := fs.Bool("project", false, "Resolve through the project configuration entry point")
	status := fs.String("status", "", "Status filter: Available or Unavailable")
	name := fs.String("name", "", "Name substring filter")
	sourceTypes := fs.String("source-types", "", "Comma separated datasource type allow-list")
	all := fs.Bool("all", false, "Return every datatable without filtering")
	vendor := fs.String("vendor", "", "Catalog vendor to query")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	switch cmd {
	case "get", "delete":
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: %s takes exactly one <node/table>", errUsage, cmd)
		}
	case "list":
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: list takes exactly one <node>", errUsage)
		}
	default:
		if fs.NArg() == 0 {
			return fmt.Errorf("%w: %s takes at least one <node/table>", errUsage, cmd)
		}
	}

	var refs []types.NodeDatatableID
	if cmd != "list" {
		var err error
		if refs, err = parseRefs(fs.Args()); err != nil {
			return err
		}
	}

	return withApp(ctx, *configPath, appOptions{}, func(ctx context.Context, a *app) error {
		m := a.manager
		switch cmd {
		case "get":
			d, err := m.FindByID(ctx, refs[0])
			if err != nil {
				return err
			}
			return writeJSON(out, d)

		case "batch":
			find := m.FindByIDs
			if *project {
				find = m.FindByIDsFromProjectConfig
			}
			result, err := find(ctx, refs)
			if err != nil {
				return err
			}
			return writeJSON(out, sortedDatatables(result))

		case "group":
			records, err := m.FindByIDGroup(ctx, refs)
			if err != nil {
				return err
			}
			return writeJSON(out, records)

		case "list":
			nodeID := fs.Arg(0)
			switch {
			case *vendor != "":
				list, err := m.FindByNodeVendor(ctx, nodeID, *vendor)
				if err != nil {
					return err
				}
				return writeJSON(out, types.DatatableList{Datatables: list, Total: len(list)})
			case *all:
				list, err := m.FindAllByNodeID(ctx, nodeID)
				if err != nil {
					return err
				}
				return writeJSON(out, types.DatatableList{Datatables: list, Total: len(list)})
			default:
				list, err := m.FindByNodeID(ctx, nodeID, datatable.ListFilter{
					Status:      *status,
					Name:        *name,
					SourceTypes: splitList(*sourceTypes),
				})
				if err != nil {
					return err
				}
				return writeJSON(out, list)
			}

		case "delete":
			if err := m.Delete(ctx, refs[0]); err != nil {
				return err
			}
			return writeJSON(out, map[string]string{"deleted": refs[0].String()})
		}
		return nil
	})
}

// parseRef 解析 node/table，表 ID 中允许出现 "/"
func parseRef(s string) (types.NodeDatatableID, error) {
	node, table, ok := strings.Cut(s, "/")
	if !ok || node == "" || table == "" {
		return types.NodeDatatableID{}, fmt.Errorf("%w: %q is not <node/table>", errUsage, s)
	}
	return types.NodeDatatableID{NodeID: node, DatatableID: table}, nil
}

func parseRefs(args []string) ([]types.NodeDatatableID, error) {
	refs := make([]types.NodeDatatableID, 0, len(args))
	for _, arg := range args {
		ref, err := parseRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sortedDatatables 按 node、table 排序，保证输出稳定
func sortedDatatables(m map[types.NodeDatatableID]types.Datatable) []types.Datatable {
	list := make([]types.Datatable, 0, len(m))
	for _, d := range m {
		list = append(list, d)
	}
	slices.SortFunc(list, func(a, b types.Datatable) int {
		if c := strings.Compare(a.NodeID, b.NodeID); c != 0 {
			return c
		}
		return strings.Compare(a.DatatableID, b.DatatableID)
	})
	return list
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
