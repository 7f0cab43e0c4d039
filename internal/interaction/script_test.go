package interaction

import "testing"

func TestScriptCheckAllows(t *testing.T) {
	grounded := true
	check, err := NewScriptCheck("test", `allow = grounded && state != "crouching"`, func() map[string]any {
		return map[string]any{
			"grounded": grounded,
			"state":    "running",
		}
	})
	if err != nil {
		t.Fatalf("NewScriptCheck() error = %v", err)
	}

	if !check.Check() {
		t.Fatalf("Check() = false, want true")
	}
}

func TestScriptCheckDenies(t *testing.T) {
	check, err := NewScriptCheck("test", `allow = grounded`, func() map[string]any {
		return map[string]any{"grounded": false}
	})
	if err != nil {
		t.Fatalf("NewScriptCheck() error = %v", err)
	}

	if check.Check() {
		t.Fatalf("Check() = true, want false")
	}
}

func TestScriptCheckRebindsEachEvaluation(t *testing.T) {
	grounded := false
	check, err := NewScriptCheck("test", `allow = grounded`, func() map[string]any {
		return map[string]any{"grounded": grounded}
	})
	if err != nil {
		t.Fatalf("NewScriptCheck() error = %v", err)
	}

	if check.Check() {
		t.Fatalf("first Check() = true, want false")
	}
	grounded = true
	if !check.Check() {
		t.Fatalf("second Check() = false, want true after rebind")
	}
}

func TestScriptCheckWithoutAllowAssignmentDenies(t *testing.T) {
	check, err := NewScriptCheck("test", `x := 1 + 1`, nil)
	if err != nil {
		t.Fatalf("NewScriptCheck() error = %v", err)
	}

	if check.Check() {
		t.Fatalf("Check() = true, want false when script never assigns allow")
	}
}

func TestScriptCheckCompileErrorSurfaces(t *testing.T) {
	if _, err := NewScriptCheck("test", `allow = = 1`, nil); err == nil {
		t.Fatalf("NewScriptCheck() with invalid source returned nil error")
	}
}

func TestScriptCheckAsGatePrecondition(t *testing.T) {
	check, err := NewScriptCheck("test", `allow = count < 3`, func() map[string]any {
		return map[string]any{"count": 1}
	})
	if err != nil {
		t.Fatalf("NewScriptCheck() error = %v", err)
	}

	gate := NewGate("scripted")
	fired := 0
	gate.AddPrecondition(check.Precondition())
	gate.SetAction(func() { fired++ })

	if !gate.Evaluate(true) {
		t.Fatalf("Evaluate(true) = false, want true")
	}
	if fired != 1 {
		t.Fatalf("action fired %d times, want 1", fired)
	}
}
