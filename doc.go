/*
Package delta is an embeddable automation language with an editor-line runtime.

An algorithm is a tree of actions (input, set, print, if/else, while, for)
whose expressions are parsed into tokens and computed against the variables of
a run. The same tree is shown to editors as a flat sequence of editor lines,
and every structural edit (insert, delete, move, update) is addressed by line
index.

# Concept

The Engine owns stored algorithms. It serializes edits and runs of the same
algorithm, reports lifecycle events through hooks, and synchronizes shared
algorithms with a remote catalog by comparing last update dates.

Stores, locks and remotes are ports with interchangeable adapters (memory,
files, Loam repositories, Redis, HTTP), so the engine can be embedded in a
CLI, an HTTP service or an agent over MCP.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/delta"
	)

	func main() {
		ctx := context.Background()
		eng := delta.New()

		lib, err := eng.List(ctx) // seeds the default algorithms
		if err != nil {
			log.Fatal(err)
		}
		snap, err := eng.Run(ctx, lib.Downloaded[0].LocalID, map[string]string{"n": "7"})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(snap.Output)
	}

# Program Text

Algorithms persist as program text, one action per line, blocks indented by
four spaces and closed with a brace:

	input "x" default "0"
	if "x > 5" {
	    print "x"
	} else {
	    print "0"
	}

See the pkg/dsl package for building the same trees in Go.
*/
package delta
