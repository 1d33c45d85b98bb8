package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/catalog"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/roapi"
	"github.com/wippyai/winrt-runtime/runtime"
	"github.com/wippyai/winrt-runtime/winrt"
)

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type callCmd struct {
	class     string
	factory   string
	create    string
	iface     string
	method    string
	apartment string
	args      stringList
	await     bool
}

func (*callCmd) Name() string     { return "call" }
func (*callCmd) Synopsis() string { return "Create a runtime class instance and call a method on it." }
func (*callCmd) Usage() string {
	return `winrt call -class <name> [-factory <iface> -create <method>] [-iface <iface> -method <name> [-arg v]...] [factory args...]

Positional arguments are passed to the factory method, -arg values to the
instance method. Struct values are comma separated field lists.

Example:
  winrt call -class Windows.Devices.Geolocation.Geopoint -factory IGeopointFactory \
    -create Create -iface IGeopoint -method get_Position 47.643,-122.131,100
`
}

func (cmd *callCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.class, "class", "", "runtime class name")
	f.StringVar(&cmd.factory, "factory", "IActivationFactory", "factory interface name or IID")
	f.StringVar(&cmd.create, "create", "ActivateInstance", "factory method creating the instance")
	f.StringVar(&cmd.iface, "iface", "", "instance interface name or IID")
	f.StringVar(&cmd.method, "method", "", "instance method to call")
	f.StringVar(&cmd.apartment, "apartment", "mta", "apartment to initialize, sta or mta")
	f.Var(&cmd.args, "arg", "instance method argument, repeatable")
	f.BoolVar(&cmd.await, "await", false, "wait for async results")
}

func (cmd *callCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if cmd.class == "" {
		fmt.Fprintln(os.Stderr, "-class is required")
		return subcommands.ExitUsageError
	}
	if (cmd.method == "") != (cmd.iface == "") {
		fmt.Fprintln(os.Stderr, "-iface and -method go together")
		return subcommands.ExitUsageError
	}
	if err := cmd.execute(ctx, f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *callCmd) execute(ctx context.Context, factoryArgs []string) error {
	apartment := roapi.MultiThreaded
	switch strings.ToLower(cmd.apartment) {
	case "mta":
	case "sta":
		apartment = roapi.SingleThreaded
	default:
		return fmt.Errorf("unknown apartment %q", cmd.apartment)
	}

	log := loggerFrom(ctx)
	rt, err := runtime.New(ctx, runtime.WithLogger(log), runtime.WithApartment(apartment))
	if err != nil {
		return err
	}
	defer rt.Close()

	fsig, create, err := lookupMethod(cmd.factory, cmd.create)
	if err != nil {
		return err
	}
	f, err := rt.Factory(ctx, cmd.class, fsig.IID)
	if err != nil {
		return err
	}
	defer f.Release()

	args, err := methodArgs(create, factoryArgs)
	if err != nil {
		return err
	}
	created, err := rt.Invoke(ctx, f, create, args...)
	releaseAll(args)
	if err != nil {
		return err
	}
	defer releaseAll(created)
	if len(created) == 0 {
		return fmt.Errorf("%s.%s returns nothing", fsig.Name, create.Name())
	}
	log.Debug("created", zap.String("class", cmd.class), zap.Stringer("value", created[0]))

	results := created
	if cmd.method != "" {
		isig, m, err := lookupMethod(cmd.iface, cmd.method)
		if err != nil {
			return err
		}
		obj, ok := created[0].AsObject()
		if !ok {
			return fmt.Errorf("%s.%s did not return an object", fsig.Name, create.Name())
		}
		margs, err := methodArgs(m, cmd.args)
		if err != nil {
			return err
		}
		results, err = rt.InvokeNamed(ctx, obj, isig.IID, m.Name(), margs...)
		releaseAll(margs)
		if err != nil {
			return err
		}
		defer releaseAll(results)
	}

	for i, v := range results {
		if cmd.await && winrt.IsAsync(v.Type()) {
			done, err := rt.Await(ctx, v)
			if err != nil {
				return err
			}
			defer done.Release()
			v = done
		}
		fmt.Printf("out%d %s\n", i, v)
	}
	return nil
}

func lookupMethod(iface, method string) (*invoke.InterfaceSignature, *invoke.Method, error) {
	s, ok := catalog.Lookup(iface)
	if !ok {
		return nil, nil, fmt.Errorf("unknown interface %q", iface)
	}
	m, ok := s.Lookup(method)
	if !ok {
		return nil, nil, fmt.Errorf("%s has no method %q", s.Name, method)
	}
	return s, m, nil
}

// methodArgs converts one text argument per input parameter of m.
func methodArgs(m *invoke.Method, text []string) ([]winrt.Value, error) {
	if len(text) != m.NumIn() {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", m, m.NumIn(), len(text))
	}
	var args []winrt.Value
	for _, p := range m.Params() {
		if p.Out {
			continue
		}
		v, err := parseValue(p.Type, text[len(args)])
		if err != nil {
			releaseAll(args)
			return nil, fmt.Errorf("argument %d: %w", len(args), err)
		}
		args = append(args, v)
	}
	return args, nil
}

func releaseAll(vs []winrt.Value) {
	for _, v := range vs {
		v.Release()
	}
}
