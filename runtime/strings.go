// Package runtime implements the C3 value-model helpers spec'd in §4.4: a
// handful of native functions generated code reaches via an absolute-address
// `call`, because their behavior (heap allocation, libc string copies) has
// no single-instruction x86/x86-64 encoding.
//
// These must be real, C-ABI-callable machine code — a Go function value is
// not directly invokable from hand-emitted `call reg`, since the Go calling
// convention (register assignment, goroutine stack checks) doesn't match
// cdecl or Microsoft x64. cgo's C compiler is the only piece of the toolchain
// that produces such code without hand-writing a second, duplicate set of
// trampolines in the asm package purely to bridge into Go; the preamble
// below is deliberately minimal C, not a library dependency.
package runtime

/*
#include <stdlib.h>
#include <string.h>

// cjit_string mirrors what the code generator reserves inline in a
// compiled function's stack frame for every String-typed local: a pointer
// to a heap-allocated, NUL-terminated buffer, its length, and its
// allocated capacity. sizeof(cjit_string) is StringObjectSize in Go.
typedef struct {
	char*  data;
	size_t len;
	size_t cap;
} cjit_string;

static void cjit_string_default_ctor(cjit_string* s) {
	s->data = (char*)malloc(1);
	s->data[0] = '\0';
	s->len = 0;
	s->cap = 0;
}

static void cjit_string_from_cstr_ctor(cjit_string* s, const char* cstr) {
	size_t n = strlen(cstr);
	s->data = (char*)malloc(n + 1);
	memcpy(s->data, cstr, n + 1);
	s->len = n;
	s->cap = n;
}

static void cjit_string_dtor(cjit_string* s) {
	free(s->data);
	s->data = NULL;
	s->len = 0;
	s->cap = 0;
}

static int cjit_string_index(cjit_string* s, int i) {
	return (unsigned char)s->data[i];
}

static cjit_string* cjit_string_assign(cjit_string* s, const char* cstr) {
	size_t n = strlen(cstr);
	char* fresh = (char*)malloc(n + 1);
	memcpy(fresh, cstr, n + 1);
	free(s->data);
	s->data = fresh;
	s->len = n;
	s->cap = n;
	return s;
}

static const char* cjit_string_cstr(cjit_string* s) {
	return s->data;
}

// Accessors hand back each helper's entry address as a plain pointer;
// taking &function in cgo is itself a compile-time constant, so these
// never allocate or call through an indirection the optimizer could move.
static void* cjit_addr_string_default_ctor(void)    { return (void*)cjit_string_default_ctor; }
static void* cjit_addr_string_from_cstr_ctor(void)  { return (void*)cjit_string_from_cstr_ctor; }
static void* cjit_addr_string_dtor(void)            { return (void*)cjit_string_dtor; }
static void* cjit_addr_string_index(void)           { return (void*)cjit_string_index; }
static void* cjit_addr_string_assign(void)          { return (void*)cjit_string_assign; }
static void* cjit_addr_string_cstr(void)             { return (void*)cjit_string_cstr; }
*/
import "C"
import "unsafe"

// StringObjectSize is sizeof(cjit_string): the number of bytes the code
// generator must reserve on the stack for every String-typed local or
// temporary, three pointer-sized fields regardless of target width.
const StringObjectSize = int32(unsafe.Sizeof(C.cjit_string{}))

// StringDefaultCtorAddr is string_default_ctor(addr): initializes a
// zero-length string object in place.
func StringDefaultCtorAddr() uintptr { return uintptr(C.cjit_addr_string_default_ctor()) }

// StringFromCStrCtorAddr is string_from_cstr_ctor(addr, cstr): initializes
// a string object as a copy of a NUL-terminated buffer.
func StringFromCStrCtorAddr() uintptr { return uintptr(C.cjit_addr_string_from_cstr_ctor()) }

// StringDtorAddr is string_dtor(addr): releases a string object's storage.
func StringDtorAddr() uintptr { return uintptr(C.cjit_addr_string_dtor()) }

// StringIndexAddr is string_index(addr, i): returns byte i as Int32. Out of
// range i is undefined behavior, mirroring spec.md — the generator never
// bound-checks.
func StringIndexAddr() uintptr { return uintptr(C.cjit_addr_string_index()) }

// StringAssignAddr is string_assign(addr, cstr): overwrites the string's
// contents and returns addr.
func StringAssignAddr() uintptr { return uintptr(C.cjit_addr_string_assign()) }

// StringCStrAddr is string_cstr(addr): returns the string's NUL-terminated
// buffer pointer.
func StringCStrAddr() uintptr { return uintptr(C.cjit_addr_string_cstr()) }
