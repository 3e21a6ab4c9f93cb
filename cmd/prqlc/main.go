// Command prqlc is a thin CLI wrapping the prqlc package's Compile entry
// point (spec.md §1 "an external collaborator ... drives the compiler
// through its public API"), in the same small-command style as the
// teacher's cmd/snapsql/main.go: a kong CLI struct, a Context carrying
// global flags, one Run method per subcommand.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/prqlc-go/prqlc"
)

// Context carries global flags into every subcommand's Run method.
type Context struct {
	Verbose bool
}

// CompileCmd compiles a .prql file (or stdin) to SQL.
type CompileCmd struct {
	Path             string `arg:"" optional:"" help:"PRQL source file to compile (omit or '-' to read stdin)"`
	Target           string `help:"Force a SQL dialect (e.g. sql.postgres); empty reads the source's own header" short:"t"`
	NoFormat         bool   `help:"Collapse output to a single dense line"`
	NoSignature      bool   `help:"Omit the '-- Generated by' signature comment"`
}

func (cmd *CompileCmd) Run(ctx *Context) error {
	src, err := readSource(cmd.Path)
	if err != nil {
		return err
	}

	fileCfg, err := loadFileConfig(".prqlc.yaml")
	if err != nil {
		return err
	}

	opts := prqlc.DefaultOptions()
	if fileCfg.Target != "" {
		opts.Target = fileCfg.Target
	}
	if fileCfg.Format != nil {
		opts.Format = *fileCfg.Format
	}
	if fileCfg.SignatureComment != nil {
		opts.SignatureComment = *fileCfg.SignatureComment
	}

	if cmd.Target != "" {
		opts.Target = cmd.Target
	}
	if cmd.NoFormat {
		opts.Format = false
	}
	if cmd.NoSignature {
		opts.SignatureComment = false
	}

	sql, errs := prqlc.Compile(src, opts)
	if len(errs) > 0 {
		printErrors(errs)
		return fmt.Errorf("compile failed with %d error(s)", len(errs))
	}

	fmt.Println(sql)

	return nil
}

// InspectCmd prints a PRQL file's PL tree as JSON, as produced by
// PrqlToPL before name resolution, for debugging without going all the
// way to SQL (spec.md §6.2's granular API exposed from the command line).
type InspectCmd struct {
	Path   string `arg:"" optional:"" help:"PRQL source file to inspect (omit or '-' to read stdin)"`
	Pretty bool   `help:"Pretty-print JSON output"`
}

func (cmd *InspectCmd) Run(ctx *Context) error {
	src, err := readSource(cmd.Path)
	if err != nil {
		return err
	}

	pl, errs := prqlc.PrqlToPL(src)
	if len(errs) > 0 {
		printErrors(errs)
		return fmt.Errorf("parse failed with %d error(s)", len(errs))
	}

	var b []byte
	if cmd.Pretty {
		b, err = prqlc.MarshalPLIndent(pl)
	} else {
		b, err = prqlc.MarshalPL(pl)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal PL: %w", err)
	}

	os.Stdout.Write(b)
	os.Stdout.WriteString("\n")

	return nil
}

// VersionCmd prints the compiler's own version.
type VersionCmd struct{}

func (cmd *VersionCmd) Run() error {
	fmt.Println("prqlc " + prqlc.Version)
	return nil
}

var CLI struct {
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Compile CompileCmd `cmd:"" help:"Compile a PRQL file to SQL" default:"1"`
	Inspect InspectCmd `cmd:"" help:"Print a PRQL file's unresolved PL tree as JSON"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

func readSource(path string) (string, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	return string(b), nil
}

// printErrors writes each diagnostic's own rendered display to stderr,
// with the "Error:" lead-in bolded the same way the teacher's CLI
// bolds its own failure output.
func printErrors(errs prqlc.ErrorMessages) {
	bold := color.New(color.Bold)
	for _, m := range errs {
		bold.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, m.Display)
	}
}

func main() {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kctx := kong.Parse(&CLI, kong.Name("prqlc"), kong.Description("Compile PRQL to SQL."))
	appCtx := &Context{Verbose: CLI.Verbose}

	err := kctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
