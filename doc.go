/*
Package turing is a deterministic Turing machine engine.

A program is a set of numbered states, each with transitions keyed by the
symbol under the head. Every transition writes a symbol, optionally moves the
head one cell and enters a target state. Entering an accepting or rejecting
state halts the machine. Programs are written in a small line-oriented text
format, can be stored in a compact binary form and are executed over an
unbounded sparse tape.

# Concept

The packages under pkg/ are usable on their own:

  - domain: states, transitions and the configuration that holds them.
  - tape: the sparse tape.
  - engine: the single-step machine and its observation surface.
  - codec: the binary form of configurations.
  - dsl: the text format, the Program type and a fluent builder.
  - runner: the loop that drives a machine to a halt.

Engine in this package combines them with a program store.

# Usage

	eng := turing.New(turing.WithMaxSteps(10_000))

	prog, err := eng.Compile(`
	%charset 1 _
	%blank _
	%memory 111
	> 0
	1 A
	0 1 -> 1 r 0
	0 _ -> 1 - 1
	`)
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Run(ctx, prog, turing.RunRequest{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Status, res.Tape) // halted_accept 1111
*/
package turing
