/*
Package dsl reads and writes Turing machine programs over a character alphabet.

A Program is a domain.Configuration[rune] together with the declared
charset, the blank symbol and the initial tape content. Programs are
usually written in a line-oriented text format:

	; unary increment
	%charset 0 1 _
	%blank _
	%memory 111
	> 0
	1 A
	0 1 -> 1 r 0
	0 _ -> 1 - 1

Directive keywords and the move letters are case-insensitive. Blank lines
and lines starting with ";", "//" or "--" are ignored. The charset must be
declared before any line that references a symbol. States referenced by
transitions are not checked while parsing; a missing state is treated as
an undefined transition when the program runs.

Programs can also be built in Go with the fluent Builder, exported to
YAML, and serialized to the binary envelope of package codec:

	b := dsl.NewBuilder("01_").Blank('_').Memory("111")
	b.State(0).Start().On("1").Write('1').Right().Go(0)
	b.State(0).On("_").Write('1').Stay().Go(1)
	b.State(1).Accept()
	prog, err := b.Build()
*/
package dsl
