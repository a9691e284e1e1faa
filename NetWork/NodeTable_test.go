package NetWork

import (
	"testing"

	"PBFTSim/ID"
)

func TestNodeTableAddAndFind(t *testing.T) {

	table := NewNodeTable(1)

	handle := NewChanHandle()
	fresh, _ := table.AddNode(2, handle)
	if !fresh {
		t.Error("First registration should be reported as new")
	}

	ok, found := table.FindNode(2)
	if !ok {
		t.Fatal("Registered node should be found")
	}
	if found != Handle(handle) {
		t.Error("FindNode should return the registered handle")
	}

	if ok, _ := table.FindNode(9); ok {
		t.Error("Unknown node should not be found")
	}
}

func TestNodeTableUpsertIsIdempotent(t *testing.T) {

	table := NewNodeTable(1)

	first := NewChanHandle()
	second := NewChanHandle()

	table.AddNode(2, first)
	fresh, _ := table.AddNode(2, second)
	if fresh {
		t.Error("Re-registration should be reported as overwrite")
	}

	if table.Length() != 1 {
		t.Errorf("Expected length 1 after upsert, got %d", table.Length())
	}

	_, found := table.FindNode(2)
	if found != Handle(second) {
		t.Error("Upsert should overwrite the handle")
	}
}

func TestNodeTableNilHandleMeansDisconnected(t *testing.T) {

	table := NewNodeTable(1)
	table.AddNode(2, nil)

	if ok, _ := table.FindNode(2); ok {
		t.Error("Nil handle should be treated as disconnected")
	}
}

func TestNodeTableMembersSorted(t *testing.T) {

	table := NewNodeTable(1)
	for _, id := range []ID.NodeID{4, 2, 7, 3} {
		table.AddNode(id, NewChanHandle())
	}

	members := table.Members()
	if len(members) != 4 {
		t.Fatalf("Expected 4 members, got %d", len(members))
	}
	for i := 1; i < len(members); i++ {
		if members[i-1] >= members[i] {
			t.Fatalf("Members should be sorted ascending, got %v", members)
		}
	}
}
