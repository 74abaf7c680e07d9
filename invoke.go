package jit

/*
#include <stdint.h>

typedef intptr_t (*cjit_fn_i0)(void);
typedef double   (*cjit_fn_d0)(void);
typedef intptr_t (*cjit_fn_i2)(intptr_t, intptr_t);

static intptr_t cjit_invoke_i0(void* fn) {
	return ((cjit_fn_i0)fn)();
}
static double cjit_invoke_d0(void* fn) {
	return ((cjit_fn_d0)fn)();
}
static intptr_t cjit_invoke_i2(void* fn, intptr_t a, intptr_t b) {
	return ((cjit_fn_i2)fn)(a, b);
}
*/
import "C"
import "unsafe"

// invokeInt0 calls a compiled function taking no parameters and returning
// Int32 or Pointer, through a real C-ABI call — the only reliable way to
// reach a cdecl/Microsoft-x64 function from Go, since Go's own calling
// convention doesn't match either and a naive func-pointer cast isn't
// portable across Go versions.
func invokeInt0(addr uintptr) int64 {
	return int64(C.cjit_invoke_i0(unsafe.Pointer(addr)))
}

func invokeDouble0(addr uintptr) float64 {
	return float64(C.cjit_invoke_d0(unsafe.Pointer(addr)))
}

func invokeInt2(addr uintptr, a, b int64) int64 {
	return int64(C.cjit_invoke_i2(unsafe.Pointer(addr), C.intptr_t(a), C.intptr_t(b)))
}
