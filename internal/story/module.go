package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dop251/goja"
)

// Story modules published by the gamebook backend look like:
//
//	const spaceAdventure = { id: 'space', sections: { ... } };
//	module.exports = spaceAdventure;
//
// Only the object literal is evaluated, in a fresh runtime with no globals
// beyond the language builtins.
var (
	constModulePattern  = regexp.MustCompile(`const\s+[\w$]+\s*=\s*(\{[\s\S]*?\})\s*;?\s*module\.exports`)
	exportModulePattern = regexp.MustCompile(`module\.exports\s*=\s*(\{[\s\S]*\})\s*;?\s*$`)
)

var (
	// ErrNoModuleObject is returned when a module has no exported object literal.
	ErrNoModuleObject = errors.New("could not find exported object literal")
	// ErrEvalTimeout is returned when an object literal takes too long to evaluate.
	ErrEvalTimeout = errors.New("object literal evaluation timed out")
)

// evalTimeout bounds the evaluation of a single object literal.
var evalTimeout = time.Second

// ModuleObject extracts the exported object literal from a CommonJS story
// module and returns it as JSON.
func ModuleObject(code []byte) ([]byte, error) {
	m := constModulePattern.FindSubmatch(code)
	if m == nil {
		m = exportModulePattern.FindSubmatch(bytes.TrimSpace(code))
	}
	if m == nil {
		return nil, ErrNoModuleObject
	}
	return ObjectLiteralToJSON(m[1])
}

// ObjectLiteralToJSON evaluates a JavaScript object literal and encodes the
// resulting value as JSON. Numeric keys become strings, undefined becomes null.
func ObjectLiteralToJSON(src []byte) ([]byte, error) {
	vm := goja.New()
	timer := time.AfterFunc(evalTimeout, func() {
		vm.Interrupt(ErrEvalTimeout)
	})
	defer timer.Stop()

	value, err := vm.RunString("(" + string(src) + "\n)")
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate object literal: %w", err)
	}

	object, ok := value.Export().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNoModuleObject, value.String())
	}

	out, err := json.Marshal(object)
	if err != nil {
		return nil, fmt.Errorf("failed to encode object literal: %w", err)
	}
	return out, nil
}
