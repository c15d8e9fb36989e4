package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/document"
	"github.com/reoring/schemaedit/i18n"
	"github.com/reoring/schemaedit/internal/config"
	"github.com/reoring/schemaedit/internal/logging"
	"github.com/reoring/schemaedit/schemaload"
)

// app carries global flags and what the persistent pre-run builds from them.
type app struct {
	cfgFile    string
	schemaFile string
	docFile    string
	verbose    bool
	strict     bool
	selections []string

	cfg *config.Config
	log zerolog.Logger
	out io.Writer
	err io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut, log: zerolog.Nop()}
	cmd := &cobra.Command{
		Use:   "schemaedit",
		Short: "Schema-aware path resolution and copy/paste for structured documents",
		Long: `schemaedit walks editor paths such as "users[0].address.city" through a
schema and a document at the same time.

Examples:
  schemaedit resolve  -s schema.yaml -d doc.json 'users[0].pet.name'
  schemaedit variant  -s schema.yaml -d doc.json users[0].pet --set 1
  schemaedit fields   -s schema.yaml -d doc.json users[0]
  schemaedit paste    -s schema.yaml -d doc.json users[0] users[1] --only address.city`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	pf.StringVarP(&a.schemaFile, "schema", "s", "", "schema file (JSON or YAML)")
	pf.StringVarP(&a.docFile, "doc", "d", "", "document file (JSON or YAML)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&a.strict, "strict", false, "fail on schema warnings")
	pf.StringArrayVar(&a.selections, "select", nil, "stored variant choice as path=index (repeatable)")

	cmd.AddCommand(
		a.resolveCmd(),
		a.variantCmd(),
		a.compatCmd(),
		a.fieldsCmd(),
		a.pasteCmd(),
		a.validatePathsCmd(),
	)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	a.log = logging.New(a.err, level, cfg.Logging.Format)
	i18n.SetLanguage(cfg.I18n.Language)
	a.log.Debug().Str("command", cmd.Name()).Str("schema", a.schemaFile).Str("doc", a.docFile).Msg("starting")
	return nil
}

func (a *app) loadSchema() (se.Node, error) {
	if a.schemaFile == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	n, diag, err := schemaload.LoadFile(a.schemaFile, schemaload.Options{Strict: a.strict})
	if err != nil {
		return nil, err
	}
	for _, w := range diag.Warnings() {
		a.log.Warn().Str("schema", a.schemaFile).Msg(w)
	}
	return n, nil
}

// loadDoc returns nil when no document is given; paths then resolve through
// the schema alone.
func (a *app) loadDoc() (any, error) {
	if a.docFile == "" {
		return nil, nil
	}
	return document.LoadFile(a.docFile)
}

func (a *app) load() (se.Node, any, *se.VariantSelections, error) {
	root, err := a.loadSchema()
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := a.loadDoc()
	if err != nil {
		return nil, nil, nil, err
	}
	sel, err := parseSelections(a.selections)
	if err != nil {
		return nil, nil, nil, err
	}
	return root, doc, sel, nil
}

func (a *app) resolver() *se.Resolver {
	return se.NewResolver(se.WithLogger(a.log))
}

func parseSelections(specs []string) (*se.VariantSelections, error) {
	sel := se.NewVariantSelections()
	for _, s := range specs {
		i := strings.LastIndex(s, "=")
		if i < 0 {
			return nil, fmt.Errorf("--select %q: expected path=index", s)
		}
		idx, err := strconv.Atoi(s[i+1:])
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("--select %q: index must be a non-negative integer", s)
		}
		sel.Set(se.NormalizePath(s[:i]), idx)
	}
	return sel, nil
}

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

// emitDocument writes doc to path when given, otherwise prints it.
func (a *app) emitDocument(doc any, path string) error {
	if path == "" {
		return a.printJSON(doc)
	}
	if err := document.WriteFile(path, doc); err != nil {
		return err
	}
	a.log.Info().Str("out", path).Msg("document written")
	return nil
}
