package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/internal/config"
	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/xmldict"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <item|research|room> <dump.xml>\n", os.Args[0])
		os.Exit(1)
	}

	kind, err := gamedata.ParseKind(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	validator := &DumpValidator{cfg: cfg, log: logger.SetupWriter(cfg, os.Stderr)}
	if err := validator.validateFile(context.Background(), kind, os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Data file is valid!")
}

// fileFetcher serves a local dump for one path and empty documents for the
// rest.
type fileFetcher struct {
	path string
	body string
}

func (f fileFetcher) Fetch(ctx context.Context, path string) (string, error) {
	if path == f.path {
		return f.body, nil
	}
	return "<Empty/>", nil
}

// DumpValidator checks that a saved upstream response parses and that every
// entity in it renders.
type DumpValidator struct {
	cfg    *config.Config
	log    *slog.Logger
	errors []string
}

func (v *DumpValidator) validateFile(ctx context.Context, kind gamedata.Kind, filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.EqualFold(filepath.Ext(filename), ".xml") {
		return fmt.Errorf("data file must have .xml extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	doc, err := xmldict.Parser{IDAttributes: v.cfg.XML.IDAttributes}.Parse(string(data))
	if err != nil {
		return fmt.Errorf("file %s failed to parse: %w", filename, err)
	}
	if root := serviceRoot(kind); doc[root] == nil {
		v.addError("root element is not <%s>; the file may not be a %s dump", root, kind)
	}

	svc := gamedata.NewService(v.cfg, fileFetcher{path: kind.Path(), body: string(data)}, nil, v.log)
	r, err := svc.Retriever(kind)
	if err != nil {
		return err
	}
	records, err := r.All(ctx)
	if err != nil {
		return fmt.Errorf("file %s failed to parse: %w", filename, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("file %s has no %s entries carrying %s", filename, kind, r.IDField())
	}

	for _, rec := range records {
		id := entity.LookupString(rec, r.IDField())
		if strings.TrimSpace(entity.LookupString(rec, r.NameField())) == "" {
			v.addError("%s %s: missing %s", kind, id, r.NameField())
		}
		for _, g := range []details.Granularity{details.Long, details.Short, details.Embed} {
			if _, err := svc.LookupID(ctx, kind, id, gamedata.LookupOptions{Granularity: g}); err != nil {
				v.addError("%s %s: %s rendering failed: %v", kind, id, g, err)
			}
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	fmt.Printf("%d %s entries checked\n", len(records), kind)
	return nil
}

// serviceRoot is the root element of upstream responses for kind, e.g.
// RoomService.
func serviceRoot(kind gamedata.Kind) string {
	root, _, _ := strings.Cut(kind.Path(), "/")
	return root
}

func (v *DumpValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}
