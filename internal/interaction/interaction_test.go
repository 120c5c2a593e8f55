package interaction

import (
	"errors"
	"testing"
)

func TestProximityBoundaryInclusive(t *testing.T) {
	kiosk := Vec2{0, 0}
	tests := []struct {
		player Vec2
		radius float64
		near   bool
	}{
		{Vec2{4, 0}, 4, true},
		{Vec2{0, -4}, 4, true},
		{Vec2{3, 4}, 5, true},
		{Vec2{4.0001, 0}, 4, false},
		{Vec2{3, 4}, 4.999, false},
		{Vec2{0, 0}, 0, true},
		{Vec2{10, 0}, 4, false},
	}

	for _, tt := range tests {
		var p Proximity
		res := p.Evaluate(kiosk, tt.player, tt.radius)
		if res.Near != tt.near {
			t.Errorf("player %v radius %v: expected near=%v, got %v (distance %v)",
				tt.player, tt.radius, tt.near, res.Near, res.Distance)
		}
	}
}

func TestProximityApproachScenario(t *testing.T) {
	var p Proximity
	kiosk := Vec2{0, 0}
	entered := 0

	for x := 10.0; x >= 2; x-- {
		res := p.Evaluate(kiosk, Vec2{x, 0}, 4)
		if res.Entered() {
			entered++
			if x != 4 {
				t.Errorf("Expected entry at x=4, got x=%v", x)
			}
		}
		if res.Left() {
			t.Errorf("Unexpected leave at x=%v", x)
		}
	}

	if entered != 1 {
		t.Errorf("Expected exactly 1 far-to-near edge, got %d", entered)
	}
	if !p.Near() {
		t.Error("Expected to end near")
	}
}

// Without hysteresis a player sitting on the boundary flips every frame.
func TestProximityBoundaryChatter(t *testing.T) {
	var p Proximity
	kiosk := Vec2{0, 0}
	positions := []Vec2{{4, 0}, {4.000001, 0}, {4, 0}, {4.000001, 0}}
	want := []bool{true, false, true, false}

	transitions := 0
	for i, pos := range positions {
		res := p.Evaluate(kiosk, pos, 4)
		if res.Near != want[i] {
			t.Errorf("step %d: expected near=%v, got %v", i, want[i], res.Near)
		}
		if res.Transitioned {
			transitions++
		}
	}
	if transitions != 4 {
		t.Errorf("Expected 4 transitions at the boundary, got %d", transitions)
	}
}

func TestProximityLevelNotEdge(t *testing.T) {
	var p Proximity
	p.Evaluate(Vec2{}, Vec2{1, 0}, 4)
	res := p.Evaluate(Vec2{}, Vec2{2, 0}, 4)
	if !res.Near || res.Transitioned {
		t.Errorf("Expected near without transition, got %+v", res)
	}
}

func TestLockAcquireRelease(t *testing.T) {
	var changes []bool
	lock := NewLock(func(active bool) { changes = append(changes, active) })

	tok, err := lock.Acquire("arcade")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !lock.Active() || lock.Holder() != "arcade" {
		t.Errorf("Expected lock held by arcade, got active=%v holder=%q", lock.Active(), lock.Holder())
	}
	if tok.Owner() != "arcade" {
		t.Errorf("Expected token owner arcade, got %q", tok.Owner())
	}

	if err := lock.Release(tok); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if lock.Active() {
		t.Error("Expected lock free after release")
	}

	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("Expected OnChange [true false], got %v", changes)
	}
}

func TestLockMisuseIsDetected(t *testing.T) {
	lock := NewLock(nil)

	if err := lock.Release(Token{}); !errors.Is(err, ErrNotHeld) {
		t.Errorf("Expected ErrNotHeld releasing a free lock, got %v", err)
	}

	first, err := lock.Acquire("arcade")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if _, err := lock.Acquire("television"); !errors.Is(err, ErrLockHeld) {
		t.Errorf("Expected ErrLockHeld for a second owner, got %v", err)
	}
	if _, err := lock.Acquire("arcade"); !errors.Is(err, ErrLockHeld) {
		t.Errorf("Expected ErrLockHeld for a double acquire, got %v", err)
	}

	if err := lock.Release(Token{}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for the zero token, got %v", err)
	}

	if err := lock.Release(first); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	// A stale token from an earlier hold cannot free a newer one
	second, _ := lock.Acquire("arcade")
	if err := lock.Release(first); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for a stale token, got %v", err)
	}
	if lock.Holder() != "arcade" {
		t.Errorf("Expected lock still held after stale release, got %q", lock.Holder())
	}
	if err := lock.Release(second); err != nil {
		t.Errorf("Expected current token to release, got %v", err)
	}
	if err := lock.Release(second); !errors.Is(err, ErrNotHeld) {
		t.Errorf("Expected ErrNotHeld on double release, got %v", err)
	}
}
