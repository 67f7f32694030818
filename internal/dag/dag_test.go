// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestOrder_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New[string]()
	order, err := g.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestOrder_DependenciesFirst(t *testing.T) {
	t.Parallel()
	g := New[string]()
	// Greeter needs HasName, HasName needs nothing.
	g.AddDependency("Greeter", "HasName")

	order, err := g.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"HasName", "Greeter"}; !slices.Equal(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestLayers_Diamond(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddDependency("Top", "Left")
	g.AddDependency("Top", "Right")
	g.AddDependency("Left", "Base")
	g.AddDependency("Right", "Base")

	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"Base"}, {"Left", "Right"}, {"Top"}}
	if len(layers) != len(want) {
		t.Fatalf("expected %d layers, got %v", len(want), layers)
	}
	for i := range want {
		if !slices.Equal(layers[i], want[i]) {
			t.Errorf("layer %d: expected %v, got %v", i, want[i], layers[i])
		}
	}
}

func TestLayers_InsertionOrderWithinLayer(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddNode("Z")
	g.AddNode("A")
	g.AddNode("M")

	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layers) != 1 || !slices.Equal(layers[0], []string{"Z", "A", "M"}) {
		t.Errorf("expected [[Z A M]], got %v", layers)
	}
}

func TestAddDependency_IgnoresDuplicates(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddDependency("B", "A")
	g.AddDependency("B", "A")

	if deps := g.Dependencies("B"); !slices.Equal(deps, []string{"A"}) {
		t.Errorf("expected [A], got %v", deps)
	}
	order, err := g.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", order)
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		stuck int
	}{
		{name: "self loop", edges: [][2]string{{"A", "A"}}, stuck: 1},
		{name: "two nodes", edges: [][2]string{{"A", "B"}, {"B", "A"}}, stuck: 2},
		{name: "three nodes", edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}}, stuck: 3},
		{name: "dependent of cycle", edges: [][2]string{{"A", "B"}, {"B", "A"}, {"C", "A"}}, stuck: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New[string]()
			for _, e := range tt.edges {
				g.AddDependency(e[0], e[1])
			}
			_, err := g.Order()
			var cycleErr *CycleError[string]
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if len(cycleErr.Nodes) != tt.stuck {
				t.Errorf("expected %d stuck nodes, got %v", tt.stuck, cycleErr.Nodes)
			}
		})
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError[string]{Nodes: []string{"A", "B", "C"}}
	expected := "dependency cycle detected among: A, B, C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
