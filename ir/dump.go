package ir

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
)

// Dump pretty-prints f's blocks and instructions using the structured
// form, the debug surface spec.md §6 calls for ("dump() on Func
// pretty-prints blocks and instructions"). It is deliberately verbose and
// meant for humans at a terminal, not for re-parsing.
func (f *Func) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(%s) -> %v [%s]\n", f.Name, f.InputType, f.OutputTypes, f.state)
	fmt.Fprintf(&sb, "  frame_size=%d frame_align=%d allocas=%d\n", f.FrameSize, f.FrameAlign, len(f.Allocas))

	for _, b := range f.Blocks {
		table := tablewriter.NewWriter(&sb)
		table.SetHeader([]string{"block", "#", "op", "dest", "detail"})
		table.SetAutoWrapText(false)
		for i, cmd := range b.Instructions {
			dest := ""
			if cmd.Op.HasDest() {
				dest = cmd.Dest.String()
			}
			table.Append([]string{
				fmt.Sprintf("b%d", b.Index),
				fmt.Sprintf("%d", i),
				cmd.Op.String(),
				dest,
				spew.Sdump(cmd)[:min(80, len(spew.Sdump(cmd)))],
			})
		}
		table.Render()
	}
	return sb.String()
}
