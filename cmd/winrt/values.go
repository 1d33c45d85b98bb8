package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/catalog"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/internal/typeexpr"
	"github.com/wippyai/winrt-runtime/winrt"
)

func parseType(expr string) (winrt.Type, error) {
	return typeexpr.Parse(expr, catalog.Resolve)
}

// parseValue converts command line text to a value of type t. Struct fields
// are separated by commas.
func parseValue(t winrt.Type, s string) (winrt.Value, error) {
	switch v := t.(type) {
	case winrt.BasicType:
		switch v {
		case winrt.BasicString:
			return winrt.NewString(s)
		case winrt.BasicGuid:
			id, err := guid.Parse(s)
			if err != nil {
				return winrt.Value{}, err
			}
			return winrt.Guid(id), nil
		case winrt.BasicObject:
			return winrt.Value{}, fmt.Errorf("objects cannot be given on the command line")
		}
		a, err := parseScalar(v, s)
		if err != nil {
			return winrt.Value{}, err
		}
		return winrt.Scalar(v, a), nil
	case winrt.EnumType:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return winrt.Value{}, fmt.Errorf("enum %s: %w", v, err)
		}
		return winrt.Enum(v, n), nil
	case winrt.StructType:
		parts := strings.Split(s, ",")
		if len(parts) != len(v.Fields) {
			return winrt.Value{}, fmt.Errorf("%s has %d fields, got %d", v, len(v.Fields), len(parts))
		}
		data := v.Handle.NewValue()
		for i, f := range v.Fields {
			b, ok := f.(winrt.BasicType)
			if !ok || b == winrt.BasicString || b == winrt.BasicGuid || b == winrt.BasicObject {
				return winrt.Value{}, fmt.Errorf("field %d of %s: %v fields cannot be given on the command line", i, v, f)
			}
			a, err := parseScalar(b, strings.TrimSpace(parts[i]))
			if err != nil {
				return winrt.Value{}, fmt.Errorf("field %d of %s: %w", i, v, err)
			}
			data.SetField(i, a)
		}
		return winrt.Struct(v, data), nil
	}
	return winrt.Value{}, fmt.Errorf("%v values cannot be given on the command line", t)
}

func parseScalar(t winrt.BasicType, s string) (abi.Value, error) {
	switch t {
	case winrt.BasicBool:
		b, err := strconv.ParseBool(s)
		return abi.BoolValue(b), err
	case winrt.BasicI8, winrt.BasicI16, winrt.BasicI32, winrt.BasicI64:
		n, err := strconv.ParseInt(s, 0, bits(t))
		if err != nil {
			return abi.Value{}, err
		}
		switch t {
		case winrt.BasicI8:
			return abi.Int8(int8(n)), nil
		case winrt.BasicI16:
			return abi.Int16(int16(n)), nil
		case winrt.BasicI32:
			return abi.Int32(int32(n)), nil
		}
		return abi.Int64(n), nil
	case winrt.BasicU8, winrt.BasicU16, winrt.BasicU32, winrt.BasicU64, winrt.BasicChar16:
		n, err := strconv.ParseUint(s, 0, bits(t))
		if err != nil {
			return abi.Value{}, err
		}
		switch t {
		case winrt.BasicU8:
			return abi.Uint8(uint8(n)), nil
		case winrt.BasicU16, winrt.BasicChar16:
			return abi.Uint16(uint16(n)), nil
		case winrt.BasicU32:
			return abi.Uint32(uint32(n)), nil
		}
		return abi.Uint64(n), nil
	case winrt.BasicF32:
		f, err := strconv.ParseFloat(s, 32)
		return abi.Float32(float32(f)), err
	case winrt.BasicF64:
		f, err := strconv.ParseFloat(s, 64)
		return abi.Float64(f), err
	}
	return abi.Value{}, fmt.Errorf("%v is not a scalar", t)
}

func bits(t winrt.BasicType) int {
	switch t {
	case winrt.BasicI8, winrt.BasicU8:
		return 8
	case winrt.BasicI16, winrt.BasicU16, winrt.BasicChar16:
		return 16
	case winrt.BasicI32, winrt.BasicU32:
		return 32
	}
	return 64
}
