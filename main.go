// Command scratchcalc is a four-function calculator that hides every result
// under a scratch-off card.
//
// Usage:
//
//	scratchcalc                 open a window
//	scratchcalc --terminal      draw into the terminal
//	scratchcalc sim script.yaml replay a recorded scratch
//
// See --help for all available options.
package main

func main() {
	Execute()
}
