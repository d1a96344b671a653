package chain

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"golang.org/x/crypto/blake2b"
)

func blake2_256(bz []byte) []byte {
	sum := blake2b.Sum256(bz)
	return sum[:]
}

// classifyEvents collects the names of the events emitted by the
// extrinsic at index and the first dispatch failure among them.
func classifyEvents(meta *types.Metadata, events []*parser.Event, index int) ([]string, *DispatchError) {
	var (
		names   []string
		failure *DispatchError
	)
	for _, ev := range events {
		if ev == nil || ev.Phase == nil || !ev.Phase.IsApplyExtrinsic || int(ev.Phase.AsApplyExtrinsic) != index {
			continue
		}
		names = append(names, ev.Name)
		if failure == nil {
			failure = eventFailure(meta, ev.Name, ev.Fields)
		}
	}
	return names, failure
}

// eventFailure returns the dispatch error carried by one event, or nil.
// Sudo and batch calls are included as successful extrinsics even when
// the wrapped call failed, so their result events are checked as well.
func eventFailure(meta *types.Metadata, name string, fields interface{}) *DispatchError {
	switch name {
	case "System.ExtrinsicFailed", "Utility.BatchInterrupted":
		return newDispatchError(meta, fields)
	case "Sudo.Sudid", "Sudo.SudoAsDone":
		if inner, ok := findDispatchError(fields); ok {
			return newDispatchError(meta, inner)
		}
	}
	return nil
}

func newDispatchError(meta *types.Metadata, fields interface{}) *DispatchError {
	out := &DispatchError{Raw: renderFields(fields)}
	palletIdx, errIdx, ok := findModuleError(fields)
	if !ok {
		return out
	}
	out.Pallet, out.Name = lookupModuleError(meta, palletIdx, errIdx)
	if out.Pallet == "" {
		out.Pallet = fmt.Sprintf("pallet#%d", palletIdx)
	}
	if out.Name == "" {
		out.Name = fmt.Sprintf("error#%d", errIdx)
	}
	return out
}

// findDispatchError locates the Err side of a decoded
// Result<(), DispatchError>. The registry decoder drops variant names,
// so the error arm is recognised by its field name, which carries the
// sp_runtime.DispatchError type path. Map shaped fields use an "Err" key.
func findDispatchError(fields interface{}) (interface{}, bool) {
	v, ok := walkDispatchError(reflect.ValueOf(fields), 0)
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

func walkDispatchError(v reflect.Value, depth int) (reflect.Value, bool) {
	if depth > maxEventDepth || !v.IsValid() {
		return reflect.Value{}, false
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}

	named, ok := namedValues(v)
	if !ok {
		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			for i := 0; i < v.Len(); i++ {
				if found, ok := walkDispatchError(v.Index(i), depth+1); ok {
					return found, true
				}
			}
		}
		return reflect.Value{}, false
	}
	for name, child := range named {
		if name == "err" || strings.Contains(name, "dispatcherror") {
			return child, true
		}
	}
	for _, child := range named {
		if found, ok := walkDispatchError(child, depth+1); ok {
			return found, true
		}
	}
	return reflect.Value{}, false
}

// findModuleError searches decoded event fields for a ModuleError
// {index, error} pair. Decoded fields come either as maps or as slices
// of {Name, Value} structs depending on the registry version, so the
// walk is done with reflection.
func findModuleError(fields interface{}) (uint8, uint8, bool) {
	return walkModuleError(reflect.ValueOf(fields), 0)
}

const maxEventDepth = 16

func walkModuleError(v reflect.Value, depth int) (uint8, uint8, bool) {
	if depth > maxEventDepth || !v.IsValid() {
		return 0, 0, false
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return 0, 0, false
		}
		v = v.Elem()
	}

	if named, ok := namedValues(v); ok {
		if idx, ok := firstByte(named["index"]); ok {
			if errIdx, ok := firstByte(named["error"]); ok {
				return idx, errIdx, true
			}
		}
		for _, child := range named {
			if p, e, ok := walkModuleError(child, depth+1); ok {
				return p, e, true
			}
		}
		return 0, 0, false
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if p, e, ok := walkModuleError(v.Index(i), depth+1); ok {
				return p, e, true
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			if p, e, ok := walkModuleError(v.Field(i), depth+1); ok {
				return p, e, true
			}
		}
	}
	return 0, 0, false
}

// namedValues flattens a map[string]T or a slice of {Name, Value}
// structs into a lookup table.
func namedValues(v reflect.Value) (map[string]reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]reflect.Value, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[strings.ToLower(iter.Key().String())] = iter.Value()
		}
		return out, true
	case reflect.Slice:
		if v.Len() == 0 {
			return nil, false
		}
		out := make(map[string]reflect.Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			name, value, ok := nameValuePair(v.Index(i))
			if !ok {
				return nil, false
			}
			out[strings.ToLower(name)] = value
		}
		return out, true
	}
	return nil, false
}

func nameValuePair(v reflect.Value) (string, reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", reflect.Value{}, false
	}
	name := v.FieldByName("Name")
	value := v.FieldByName("Value")
	if !name.IsValid() || name.Kind() != reflect.String || !value.IsValid() {
		return "", reflect.Value{}, false
	}
	return name.String(), value, true
}

// firstByte reads a u8, or the first element of a byte array such as the
// [u8; 4] error field of newer runtimes.
func firstByte(v reflect.Value) (uint8, bool) {
	if !v.IsValid() {
		return 0, false
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return uint8(v.Uint()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint8(v.Int()), true
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return 0, false
		}
		return firstByte(v.Index(0))
	}
	return 0, false
}

func renderFields(fields interface{}) string {
	s := fmt.Sprintf("%+v", fields)
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	return s
}

// lookupModuleError resolves a module error against v14 metadata.
func lookupModuleError(meta *types.Metadata, palletIdx, errIdx uint8) (string, string) {
	if meta == nil || meta.Version != 14 {
		return "", ""
	}
	for _, p := range meta.AsMetadataV14.Pallets {
		if uint8(p.Index) != palletIdx {
			continue
		}
		pallet := string(p.Name)
		if !p.HasErrors {
			return pallet, ""
		}
		ty, ok := meta.AsMetadataV14.EfficientLookup[p.Errors.Type.Int64()]
		if !ok || !ty.Def.IsVariant {
			return pallet, ""
		}
		for _, variant := range ty.Def.Variant.Variants {
			if uint8(variant.Index) == errIdx {
				return pallet, string(variant.Name)
			}
		}
		return pallet, ""
	}
	return "", ""
}
