// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "reflect"

// dynamicMemUsage estimates the heap footprint reachable from v by
// walking it with reflection, summing the size of every distinct
// pointer, slice backing array, and map it finds along the way. Shared
// structure is counted once via the seen set, tracked by address.
func dynamicMemUsage(v interface{}) int {
	return dynamicSize(reflect.ValueOf(v), make(map[uintptr]struct{}))
}

func dynamicSize(v reflect.Value, seen map[uintptr]struct{}) int {
	if !v.IsValid() {
		return 0
	}
	size := int(v.Type().Size())

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return size
		}
		if !markSeen(v.Pointer(), seen) {
			return size
		}
		return size + dynamicSize(v.Elem(), seen)

	case reflect.Slice:
		if v.IsNil() {
			return size
		}
		if !markSeen(v.Pointer(), seen) {
			return size
		}
		total := size
		for i := 0; i < v.Len(); i++ {
			total += dynamicSize(v.Index(i), seen)
		}
		return total

	case reflect.Map:
		if v.IsNil() {
			return size
		}
		if !markSeen(v.Pointer(), seen) {
			return size
		}
		total := size
		for _, k := range v.MapKeys() {
			total += dynamicSize(k, seen)
			total += dynamicSize(v.MapIndex(k), seen)
		}
		return total

	case reflect.Struct:
		total := size
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if !f.CanInterface() {
				continue
			}
			// The field's own size is already counted by the struct's
			// base size; only the indirect payload (pointee, backing
			// array, map buckets) is added on top.
			total += dynamicSize(f, seen) - int(f.Type().Size())
		}
		return total

	default:
		return size
	}
}

// markSeen reports whether ptr is new, recording it either way.
func markSeen(ptr uintptr, seen map[uintptr]struct{}) bool {
	if _, ok := seen[ptr]; ok {
		return false
	}
	seen[ptr] = struct{}{}
	return true
}
