/*
Package indirect is the runtime half of a code generator which turns ordinary function declarations into
functions resolved once, on first call, through a resolver.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. A resolver is a function of no argument returning the implementation to use, for example a function fetched from a hot loaded module (see package dynamic).
 2. The first call of a transformed function runs the resolver and stores its result in a process wide [Slot].
 3. Every later call dispatches directly through the stored function; the resolver never runs again, even under concurrent first calls.

# Generator

Annotated declarations live in files excluded from the normal build by a build constraint:

	//go:build indirect

	package sample

	//indirect:resolver="pick"
	func foo(one, two int32, really bool) (bool, int32) {
		panic("unreachable")
	}

The generator writes sample_indirect.go with the constraint negated and each annotated body replaced by a dispatch through a [Slot].
It can be installed by:

	go install github.com/ZenLiuCN/indirect/indirect-gen@latest

and is usually wired with

	//go:generate indirect-gen generate

For more details see the cli help:

	indirect-gen -h

# Without generator

[Lazy], [Func0] ... [Func3] and [Proc0] ... [Proc3] give the same behaviour as plain function values:

	var dog = indirect.Func1(foo)

# Notes

 1. A resolver must not call the function it resolves, directly or transitively: this deadlocks.
 2. A resolver that panics or calls runtime.Goexit poisons the slot: the call which ran it and every later call panic with a [PoisonError].
 3. Swapping what a resolver returns after the first call is never observed.
*/
package indirect
