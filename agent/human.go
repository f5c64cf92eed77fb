package agent

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"skygrid/actions"
	"skygrid/game"
)

// Human prompts for an action index on a terminal. It re-prompts until it
// reads a legal index, and falls back to the first legal action when the
// input stream runs dry.
type Human struct {
	name    string
	in      *bufio.Scanner
	out     io.Writer
	catalog *actions.Catalog
}

func NewHuman(name string, in io.Reader, out io.Writer) *Human {
	return &Human{
		name:    name,
		in:      bufio.NewScanner(in),
		out:     out,
		catalog: actions.Default(),
	}
}

func (a *Human) Name() string { return a.name }

func (a *Human) SelectAction(state *game.State, legal []int, player game.Player) int {
	fmt.Fprintf(a.out, "\n%s\n\n", state)
	fmt.Fprintf(a.out, "%s (%s) to act. Legal actions:\n", a.name, player)
	for _, idx := range legal {
		action, err := a.catalog.Get(idx)
		if err != nil {
			continue
		}
		fmt.Fprintf(a.out, "  %3d: %s\n", idx, action)
	}

	for {
		fmt.Fprint(a.out, "> ")
		if !a.in.Scan() {
			fmt.Fprintln(a.out, "input closed, taking first legal action")
			return legal[0]
		}
		text := strings.TrimSpace(a.in.Text())
		idx, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(a.out, "not a number: %q\n", text)
			continue
		}
		for _, l := range legal {
			if l == idx {
				return idx
			}
		}
		fmt.Fprintf(a.out, "%d is not legal here\n", idx)
	}
}

// GameEnd prints the final position.
func (a *Human) GameEnd(final *game.State, winner game.Player, draw bool) {
	fmt.Fprintf(a.out, "\n%s\n", final)
	if draw {
		fmt.Fprintln(a.out, "drawn game")
	} else {
		fmt.Fprintf(a.out, "%s wins\n", winner)
	}
}
