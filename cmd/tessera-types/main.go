// tessera-types inspects the compiler's type registry: the predefined
// canonical types with their codes, derived array types, and registry
// statistics.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tessera-lang/tessera/internal/types"
)

type CLI struct {
	List    ListCmd    `cmd:"" help:"List predefined canonical types with their codes."`
	Resolve ResolveCmd `cmd:"" help:"Resolve a derived array type for a dtype."`
	Stats   StatsCmd   `cmd:"" help:"Print registry statistics."`
}

type typeEntry struct {
	Code       uint32 `json:"code"`
	Name       string `json:"name"`
	Parametric bool   `json:"parametric"`
	Mutable    bool   `json:"mutable"`
}

type ListCmd struct {
	JSON bool `help:"Emit JSON instead of text." short:"j"`
}

func (c *ListCmd) Run() error {
	entries := make([]typeEntry, 0)
	for _, t := range types.Predefined() {
		entries = append(entries, typeEntry{
			Code:       t.Code(),
			Name:       t.Name(),
			Parametric: t.IsParametric(),
			Mutable:    t.Mutable(),
		})
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	for _, e := range entries {
		fmt.Printf("%6d  %s\n", e.Code, e.Name)
	}

	return nil
}

type ResolveCmd struct {
	DType string `arg:"" help:"Predefined dtype name (e.g. int32, f8)."`
	Steps []int  `help:"Slice step per dimension; step 1 marks a contiguous dimension." short:"s"`
	JSON  bool   `help:"Emit JSON instead of text." short:"j"`
}

func (c *ResolveCmd) Run() error {
	dtype, ok := types.PredefinedByName(c.DType)
	if !ok {
		return fmt.Errorf("unknown dtype %q", c.DType)
	}

	dims := make([]types.Dim, len(c.Steps))
	for i, s := range c.Steps {
		dims[i] = types.Dim{Step: s}
	}

	ary := dtype.Index(dims...)
	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"name":   ary.Name(),
			"code":   ary.Code(),
			"dtype":  ary.DType().Name(),
			"ndim":   ary.Ndim(),
			"layout": string(ary.Layout()),
		})
	}

	fmt.Printf("%s (code %d, ndim %d, layout %s)\n", ary.Name(), ary.Code(), ary.Ndim(), ary.Layout())

	return nil
}

type StatsCmd struct {
	JSON bool `help:"Emit JSON instead of text." short:"j"`
}

func (c *StatsCmd) Run() error {
	live := types.LiveCount()
	next := types.NextCode()

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]uint64{
			"live": uint64(live), "next_code": next,
		})
	}

	fmt.Printf("live types: %d\nnext code:  %d\n", live, next)

	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tessera-types"),
		kong.Description("Inspect the Tessera type registry."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
