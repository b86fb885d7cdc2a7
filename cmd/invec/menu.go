package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/geofduf/inline-vector/vector"
)

// intVector is the vector driven by the menu: five elements inline.
type intVector = vector.Vector[int, [5]int]

const menuText = `Menu:
1. Add value
2. Remove last value
3. Print size and capacity
4. Print vector
5. Exit
Enter choice:
`

// Menu choices.
const (
	choiceAdd = iota + 1
	choiceRemove
	choiceStats
	choicePrint
	choiceExit
)

// runMenu reads numbered choices from r, applies them to v and writes the
// responses to w until the exit choice or the end of the input.
func runMenu(v *intVector, r io.Reader, w io.Writer, logger *slog.Logger) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for {
		fmt.Fprint(w, menuText)
		if !sc.Scan() {
			return sc.Err()
		}
		choice, err := strconv.Atoi(sc.Text())
		if err != nil {
			choice = 0
		}
		switch choice {
		case choiceAdd:
			fmt.Fprintln(w, "Enter value to add:")
			if !sc.Scan() {
				return sc.Err()
			}
			x, err := strconv.Atoi(sc.Text())
			if err != nil {
				fmt.Fprintln(w, "Invalid value.")
				continue
			}
			if err := v.PushBack(x); err != nil {
				logger.Error("push back failed", "value", x, "error", err)
				fmt.Fprintf(w, "Error: %s\n", err)
				continue
			}
			logger.Debug("value added", "value", x, "size", v.Len(), "capacity", v.Cap(), "spilled", v.Spilled())
			fmt.Fprintln(w, "Value added.")
		case choiceRemove:
			if v.Empty() {
				fmt.Fprintln(w, "Vector is empty.")
				continue
			}
			x, err := v.PopBack()
			if err != nil {
				logger.Error("pop back failed", "error", err)
				fmt.Fprintf(w, "Error: %s\n", err)
				continue
			}
			logger.Debug("value removed", "value", x, "size", v.Len(), "capacity", v.Cap(), "spilled", v.Spilled())
			fmt.Fprintln(w, "Last value removed.")
		case choiceStats:
			fmt.Fprintf(w, "Size: %d\nCapacity: %d\n", v.Len(), v.Cap())
		case choicePrint:
			if v.Empty() {
				fmt.Fprintln(w, "Vector is empty.")
				continue
			}
			fmt.Fprintln(w, "Vector contents:")
			for _, x := range v.All() {
				fmt.Fprintf(w, "%d ", x)
			}
			fmt.Fprintln(w)
		case choiceExit:
			fmt.Fprintln(w, "Exiting...")
			return nil
		default:
			fmt.Fprintln(w, "Invalid choice.")
		}
	}
}
