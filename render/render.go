// Package render implements four print styles - HUMAN, KVP, CSVHeader,
// and CSVData - by walking a
// FieldDefinition table the same way aggregate walks it to encode,
// following libproc's XDR_print_fields_func.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/polysat/satnet-ipc/registry"
)

// Style selects one of the four rendering modes.
type Style int

const (
	Human Style = iota
	KVP
	CSVHeader
	CSVData
)

// Writer is the rendering target RenderStruct writes through. Both
// *strings.Builder and *Builder (this package's own two-pass buffer)
// satisfy it, so callers can pick either.
type Writer interface {
	io.Writer
	WriteByte(byte) error
	WriteString(string) (int, error)
}

// RenderStruct writes container's fields, in the style given, into out,
// starting at nesting depth 0. parentKey prefixes each field's Key the
// way XDR_print_fields_func joins nested struct keys with an
// underscore. It is a thin wrapper around renderDepth kept for callers
// that don't need to track nesting themselves.
func RenderStruct(out Writer, container interface{}, defs []registry.FieldDefinition, style Style, parentKey string) error {
	n := 0
	return renderDepth(out, container, defs, style, parentKey, 0, &n)
}

// renderDepth is RenderStruct's core: it walks one FieldDefinition
// table at nesting level depth (indentation count for HUMAN), and seq is
// the HUMAN line counter, incremented once per printed field. It does
// not descend into nested struct fields; such a field is printed through
// its own TypeFuncs.Print like any other field.
func renderDepth(out Writer, container interface{}, defs []registry.FieldDefinition, style Style, parentKey string, depth int, seq *int) error {
	for i := range defs {
		fd := &defs[i]
		if fd.IsTerminator() {
			break
		}
		key := fd.Key
		if parentKey != "" && fd.Key != "" {
			key = parentKey + "_" + fd.Key
		}

		val := fd.Get(container)
		rawPrinted := ""
		if fd.TypeFuncs != nil && fd.TypeFuncs.Print != nil {
			rawPrinted = fd.TypeFuncs.Print(val)
		}

		// HUMAN presents a numeric scalar through its Conversion
		// function when one is set, formatted as a plain float (the
		// %lf-of-conversion(raw) idiom from XDR_print_field_double); every
		// other style always emits the raw wire-typed value, bypassing
		// Conversion entirely.
		humanPrinted := rawPrinted
		if fd.Conversion != nil {
			if f, ok := toFloat64(val); ok {
				humanPrinted = strconv.FormatFloat(fd.Conversion(f), 'f', -1, 64)
			}
		}

		switch style {
		case KVP:
			if fd.Key == "" {
				continue
			}
			fmt.Fprintf(out, "%s=%s\n", key, rawPrinted)

		case Human:
			if fd.Key == "" && fd.Name == "" {
				continue
			}
			*seq++
			name := fd.Name
			if name == "" {
				name = key
			}
			indent := strings.Repeat("  ", depth)
			fmt.Fprintf(out, "%2d. %s%-32s%s", *seq, indent, name, humanPrinted)
			if fd.Unit != "" {
				fmt.Fprintf(out, "    [%s]", fd.Unit)
			}
			out.WriteByte('\n')

		case CSVHeader:
			if fd.Key == "" {
				continue
			}
			out.WriteString(key)
			out.WriteByte(',')

		case CSVData:
			if fd.Key == "" {
				continue
			}
			out.WriteString(rawPrinted)
			out.WriteByte(',')
		}
	}
	return nil
}

// toFloat64 converts a decoded numeric scalar to float64 for Conversion
// application, covering the fixed-width integer and float kinds the
// xdr package decodes into. Non-numeric values (arrays, sub-structs,
// unions) are left unconverted.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case uint32:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
