package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jwebster45206/roll-engine/pkg/dice"
)

// Command-line dice roller for development and replay debugging.
//
//	go run cmd/roll/main.go 1d20+5
//	go run cmd/roll/main.go -adv -purpose "Stealth check" 1d20+3
//	go run cmd/roll/main.go -seed 42 2d6+3 1d8
func main() {
	adv := flag.Bool("adv", false, "roll with advantage (single d20 only)")
	dis := flag.Bool("dis", false, "roll with disadvantage (single d20 only)")
	seed := flag.Int64("seed", 0, "seed the randomness source for reproducible rolls")
	purpose := flag.String("purpose", "", "label the roll (e.g. 'Stealth check')")
	actor := flag.String("actor", "", "name of the roller")
	flag.Parse()

	formulas := flag.Args()
	if len(formulas) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <formula> [formula ...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	roller := dice.NewRoller()
	if *seed != 0 {
		roller = dice.NewRollerWithSource(dice.NewSeededSource(*seed))
	}

	opts := dice.Options{
		Advantage:    *adv,
		Disadvantage: *dis,
		Purpose:      *purpose,
		Actor:        *actor,
	}

	for _, formula := range formulas {
		printResult(roller.Roll(formula, opts))
	}
}

func printResult(r dice.Result) {
	faces := make([]string, 0, len(r.Dice))
	for _, d := range r.Dice {
		faces = append(faces, fmt.Sprintf("%d", d.Value))
	}

	line := fmt.Sprintf("%s = %d  [%s]", r.Formula, r.Total, strings.Join(faces, ", "))
	if r.Modifier != 0 {
		line += " " + dice.FormatModifier(r.Modifier)
	}
	if r.Advantage {
		line += "  (advantage)"
	}
	if r.Disadvantage {
		line += "  (disadvantage)"
	}
	if r.Critical {
		line += "  NATURAL 20!"
	}
	if r.CriticalMiss {
		line += "  natural 1"
	}
	if r.Purpose != "" {
		line = r.Purpose + ": " + line
	}
	fmt.Println(line)
}
