package interaction

import (
	"fmt"
	"log/slog"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptCheck wraps a compiled tengo script as a precondition. The script is
// compiled once; every evaluation rebinds the variables produced by the
// binder, runs the script, and reads the global `allow`.
//
// A minimal script looks like:
//
//	allow = grounded && state != "crouching"
type ScriptCheck struct {
	name     string
	compiled *tengo.Compiled
	bind     func() map[string]any
}

// NewScriptCheck compiles src. The binder is called once here to learn the
// variable names and again on every evaluation for fresh values, so it must
// always return the same set of keys.
func NewScriptCheck(name, src string, bind func() map[string]any) (*ScriptCheck, error) {
	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap("math", "text"))

	if err := script.Add("allow", false); err != nil {
		return nil, fmt.Errorf("add allow variable: %w", err)
	}
	if bind != nil {
		for key, value := range bind() {
			if err := script.Add(key, value); err != nil {
				return nil, fmt.Errorf("add script variable %q: %w", key, err)
			}
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile precondition script %q: %w", name, err)
	}

	return &ScriptCheck{name: name, compiled: compiled, bind: bind}, nil
}

// Check evaluates the script. Script failures deny the interaction rather
// than aborting the caller.
func (s *ScriptCheck) Check() bool {
	if s == nil || s.compiled == nil {
		return false
	}

	if s.bind != nil {
		for key, value := range s.bind() {
			if err := s.compiled.Set(key, value); err != nil {
				slog.Warn("Script precondition bind failed", "script", s.name, "variable", key, "error", err)
				return false
			}
		}
	}
	if err := s.compiled.Run(); err != nil {
		slog.Warn("Script precondition failed", "script", s.name, "error", err)
		return false
	}

	verdict := s.compiled.Get("allow")
	return !verdict.IsUndefined() && verdict.Bool()
}

// Precondition adapts the check to the gate's function type.
func (s *ScriptCheck) Precondition() Precondition {
	return s.Check
}
