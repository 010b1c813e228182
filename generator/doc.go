// Package generator rewrites annotated function declarations into functions resolved once through a resolver.
//
// A generator source is a Go file guarded by a build tag (indirect by default). Each function of it carrying
//
//	//indirect:resolver="<expression>"
//
// has its body replaced: the first call runs <expression>() and stores the returned function in a package level slot,
// every call then forwards its arguments to the stored function. The output file replaces the source in normal builds.
//
// A line //indirect:mode=sync (or shim) placed before the package clause selects the mode of that file,
// overriding [Options].Mode.
//
// The resolver call form must return exactly func(<parameter types>) <results> of the annotated function, the generator
// does not type check it: a mismatch fails when the output compiles.
package generator
