package runtime

/*
#include <stdint.h>

// double_to_ptr truncates toward zero and saturates to the pointer-sized
// integer range, the conversion `cvttsd2si` cannot perform directly
// because its destination is a signed integer register, not an unsigned
// address-sized one — values outside INT64_MIN..INT64_MAX need an explicit
// clamp spec.md leaves to this helper.
static intptr_t cjit_double_to_ptr(double x) {
	if (x >= (double)INTPTR_MAX) return INTPTR_MAX;
	if (x <= (double)INTPTR_MIN) return INTPTR_MIN;
	return (intptr_t)x;
}

static double cjit_ptr_to_double(intptr_t p) {
	return (double)p;
}

// int32_to_ptr zero-extends a 32-bit integer into a pointer-sized one:
// a negative input keeps its 32-bit pattern and gets zero upper bits.
static uintptr_t cjit_int32_to_ptr(int32_t i) {
	return (uintptr_t)(uint32_t)i;
}

static void* cjit_addr_double_to_ptr(void) { return (void*)cjit_double_to_ptr; }
static void* cjit_addr_ptr_to_double(void) { return (void*)cjit_ptr_to_double; }
static void* cjit_addr_int32_to_ptr(void)  { return (void*)cjit_int32_to_ptr; }
*/
import "C"

// DoubleToPtrAddr is double_to_ptr(x): truncates and saturates a double to
// a pointer-sized signed integer.
func DoubleToPtrAddr() uintptr { return uintptr(C.cjit_addr_double_to_ptr()) }

// PtrToDoubleAddr is ptr_to_double(p): widens a pointer-sized integer to a
// double.
func PtrToDoubleAddr() uintptr { return uintptr(C.cjit_addr_ptr_to_double()) }

// Int32ToPtrAddr is int32_to_ptr(i): zero-extends a 32-bit integer into a
// pointer-sized one.
func Int32ToPtrAddr() uintptr { return uintptr(C.cjit_addr_int32_to_ptr()) }
