package indirect

// Lazy returns a getter which resolves F once through resolver and caches it.
//
// It is the code generation free counterpart of a transformed function:
//
//	var impl = indirect.Lazy(pick)
//
//	func foo(one, two int32, really bool) (bool, int32) {
//		return impl()(one, two, really)
//	}
func Lazy[F any](resolver func() F) func() F {
	s := new(Slot[F])
	return func() F {
		return s.Load(resolver)
	}
}

// Func0 creates a function of no argument which dispatches through the function resolved once by resolver.
func Func0[R any](resolver func() func() R) func() R {
	get := Lazy(resolver)
	return func() R {
		return get()()
	}
}

// Func1 see [Func0]
func Func1[A, R any](resolver func() func(A) R) func(A) R {
	get := Lazy(resolver)
	return func(a A) R {
		return get()(a)
	}
}

// Func2 see [Func0]
func Func2[A, B, R any](resolver func() func(A, B) R) func(A, B) R {
	get := Lazy(resolver)
	return func(a A, b B) R {
		return get()(a, b)
	}
}

// Func3 see [Func0]
func Func3[A, B, C, R any](resolver func() func(A, B, C) R) func(A, B, C) R {
	get := Lazy(resolver)
	return func(a A, b B, c C) R {
		return get()(a, b, c)
	}
}

// Proc0 is [Func0] for functions without result.
func Proc0(resolver func() func()) func() {
	get := Lazy(resolver)
	return func() {
		get()()
	}
}

// Proc1 see [Proc0]
func Proc1[A any](resolver func() func(A)) func(A) {
	get := Lazy(resolver)
	return func(a A) {
		get()(a)
	}
}

// Proc2 see [Proc0]
func Proc2[A, B any](resolver func() func(A, B)) func(A, B) {
	get := Lazy(resolver)
	return func(a A, b B) {
		get()(a, b)
	}
}

// Proc3 see [Proc0]
func Proc3[A, B, C any](resolver func() func(A, B, C)) func(A, B, C) {
	get := Lazy(resolver)
	return func(a A, b B, c C) {
		get()(a, b, c)
	}
}
