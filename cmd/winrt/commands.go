package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/catalog"
	"github.com/wippyai/winrt-runtime/layout"
	"github.com/wippyai/winrt-runtime/winrt"
)

// exprCmd runs fn for every type expression argument.
func exprCmd(ctx context.Context, f *flag.FlagSet, fn func(winrt.Type) (string, error)) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "missing type expression")
		return subcommands.ExitUsageError
	}
	log := loggerFrom(ctx)
	status := subcommands.ExitSuccess
	for _, expr := range f.Args() {
		t, err := parseType(expr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		log.Debug("parsed", zap.String("expr", expr), zap.Stringer("type", t))
		out, err := fn(t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", expr, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Println(out)
	}
	return status
}

// guarded converts a panic from the type layer, which rejects types that
// have no signature, into an error.
func guarded(fn func() string) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(), nil
}

type sigCmd struct{}

func (*sigCmd) Name() string     { return "sig" }
func (*sigCmd) Synopsis() string { return "Print the canonical signature of type expressions." }
func (*sigCmd) Usage() string {
	return "winrt sig <type>...\n\nExample: winrt sig 'IAsyncOperation<IVector<String>>'\n"
}
func (*sigCmd) SetFlags(*flag.FlagSet) {}

func (*sigCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exprCmd(ctx, f, func(t winrt.Type) (string, error) {
		return guarded(func() string { return winrt.Signature(t) })
	})
}

type iidCmd struct {
	handler bool
}

func (*iidCmd) Name() string     { return "iid" }
func (*iidCmd) Synopsis() string { return "Print the interface identifier of type expressions." }
func (*iidCmd) Usage() string {
	return "winrt iid [-handler] <type>...\n"
}

func (cmd *iidCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.handler, "handler", false, "print the completion handler IID of async types")
}

func (cmd *iidCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exprCmd(ctx, f, func(t winrt.Type) (string, error) {
		if cmd.handler {
			id, ok := winrt.CompletedHandlerIID(t)
			if !ok {
				return "", fmt.Errorf("%v is not async", t)
			}
			return id.Braced(), nil
		}
		return guarded(func() string {
			id, ok := winrt.IID(t)
			if !ok {
				panic(fmt.Sprintf("%v has no interface identifier", t))
			}
			return id.Braced()
		})
	})
}

type layoutCmd struct{}

func (*layoutCmd) Name() string     { return "layout" }
func (*layoutCmd) Synopsis() string { return "Print the size, alignment and field offsets of a value type." }
func (*layoutCmd) Usage() string {
	return "winrt layout <type>[,<type>...]\n\n" +
		"A single struct name prints that struct; a comma separated list prints\n" +
		"the layout of an anonymous struct with those fields.\n\n" +
		"Example: winrt layout f8,f8,f8\n"
}
func (*layoutCmd) SetFlags(*flag.FlagSet) {}

func (*layoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected one field list")
		return subcommands.ExitUsageError
	}
	h, err := layoutOf(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printLayout(os.Stdout, h)
	return subcommands.ExitSuccess
}

func layoutOf(list string) (h layout.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	reg := catalog.Types
	var fields []layout.Handle
	for _, expr := range strings.Split(list, ",") {
		t, err := parseType(strings.TrimSpace(expr))
		if err != nil {
			return layout.Handle{}, err
		}
		if s, ok := t.(winrt.StructType); ok {
			reg = s.Handle.Registry()
		}
		fields = append(fields, winrt.LayoutHandle(reg, t))
	}
	if len(fields) == 1 && fields[0].IsStruct() {
		return fields[0], nil
	}
	return reg.DefineStruct(fields...), nil
}

func printLayout(w io.Writer, h layout.Handle) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tsize %d\talign %d\tabi %v\n", h, h.Size(), h.Align(), h.Descriptor())
	for i := 0; i < h.FieldCount(); i++ {
		ft := h.FieldType(i)
		fmt.Fprintf(tw, "  %d\t+%d\t%v\tsize %d\n", i, h.FieldOffset(i), ft, ft.Size())
	}
	tw.Flush()
}

type ifacesCmd struct {
	methods bool
}

func (*ifacesCmd) Name() string     { return "ifaces" }
func (*ifacesCmd) Synopsis() string { return "List the interfaces in the built-in catalog." }
func (*ifacesCmd) Usage() string    { return "winrt ifaces [-methods] [name]\n" }

func (cmd *ifacesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.methods, "methods", false, "print each method with its slot and argument lowering")
}

func (cmd *ifacesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	for _, s := range catalog.Interfaces() {
		if f.NArg() > 0 && !strings.Contains(s.Name, f.Arg(0)) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d methods\n", s.Name, s.IID.Braced(), len(s.Methods))
		if !cmd.methods {
			continue
		}
		for _, m := range s.Methods {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", m.Slot(), m.Name(), m.Frame())
		}
	}
	return subcommands.ExitSuccess
}
