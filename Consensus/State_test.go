package Consensus

import (
	"testing"

	"PBFTSim/ID"
	"PBFTSim/Ledger"
)

func TestStart(t *testing.T) {

	st := NewState(1, 4, 1)
	if st.Phase != PhaseInitial {
		t.Fatalf("Expected phase %s, got %s", PhaseInitial, st.Phase)
	}

	bk := Ledger.NewBlockAt([]byte("proposal"), "prev", 1)
	next := st.Start(bk)

	if next.Phase != PhasePrePrepared {
		t.Errorf("Expected phase %s, got %s", PhasePrePrepared, next.Phase)
	}
	if next.CurrentBlock == nil || next.CurrentBlock.Hash != bk.Hash {
		t.Error("Start should set the current block")
	}
	if !next.PrepareVotes[bk.Hash][1] {
		t.Error("Start should seed a self prepare vote")
	}
	if len(next.CommitVotes) != 0 {
		t.Error("Start should clear commit votes")
	}

	if st.Phase != PhaseInitial || len(st.PrepareVotes) != 0 {
		t.Error("Start should not mutate the previous state value")
	}
}

func TestStartAccumulatesSelfVotesPerHash(t *testing.T) {

	st := NewState(2, 7, 2)

	one := Ledger.NewBlockAt([]byte("fork one"), "prev", 1)
	two := Ledger.NewBlockAt([]byte("fork two"), "prev", 2)
	three := Ledger.NewBlockAt([]byte("fork three"), "prev", 3)

	st = st.Start(one)
	st = st.Start(two)
	st = st.Start(three)

	for _, bk := range []Ledger.Block{one, two, three} {
		if len(st.PrepareVotes[bk.Hash]) != 1 {
			t.Errorf("Expected 1 self vote for hash %s, got %d", bk.Hash, len(st.PrepareVotes[bk.Hash]))
		}
	}
}

func TestRecordPrepareVoteQuorum(t *testing.T) {

	bk := Ledger.NewBlockAt([]byte("proposal"), "prev", 1)

	//n=4, f=1，法定票数为2
	st := NewState(1, 4, 1).Start(bk)

	st = st.RecordPrepareVote(bk, 2)
	if st.Phase != PhasePrepared {
		t.Errorf("Expected phase %s after quorum, got %s", PhasePrepared, st.Phase)
	}
}

func TestRecordPrepareVoteDuplicateVoterIsNoop(t *testing.T) {

	bk := Ledger.NewBlockAt([]byte("proposal"), "prev", 1)

	//n=7, f=2，法定票数为4
	st := NewState(1, 7, 2).Start(bk)

	for i := 0; i < 10; i++ {
		st = st.RecordPrepareVote(bk, 2)
	}

	if len(st.PrepareVotes[bk.Hash]) != 2 {
		t.Errorf("Expected 2 unique voters, got %d", len(st.PrepareVotes[bk.Hash]))
	}
	if st.Phase != PhasePrePrepared {
		t.Errorf("Duplicate votes must not reach quorum, phase: %s", st.Phase)
	}
}

func TestRecordCommitVoteQuorum(t *testing.T) {

	bk := Ledger.NewBlockAt([]byte("proposal"), "prev", 1)

	st := NewState(1, 4, 1).Start(bk)
	st = st.RecordCommitVote(bk, 2)
	if st.Phase == PhaseCommitted {
		t.Fatal("Single commit vote must not reach quorum")
	}

	st = st.RecordCommitVote(bk, 3)
	if st.Phase != PhaseCommitted {
		t.Errorf("Expected phase %s, got %s", PhaseCommitted, st.Phase)
	}
}

func TestCommittedIsTerminal(t *testing.T) {

	bk := Ledger.NewBlockAt([]byte("proposal"), "prev", 1)

	st := NewState(1, 4, 1).Start(bk)
	st = st.RecordCommitVote(bk, 2)
	st = st.RecordCommitVote(bk, 3)

	//迟到的Prepare票不能把终态拉回prepared
	st = st.RecordPrepareVote(bk, 4)
	if st.Phase != PhaseCommitted {
		t.Errorf("Late prepare vote must not leave terminal phase, got %s", st.Phase)
	}
}

func TestQuorumReachedPerHash(t *testing.T) {

	votes := make(VoteSet)
	votes.add("hash-a", 1)
	votes.add("hash-b", 2)
	votes.add("hash-c", 3)
	votes.add("hash-d", 4)

	//票分散在不同哈希上不能合并计票
	if QuorumReached(votes, 7, 2) {
		t.Error("Votes split across hashes must not combine into a quorum")
	}

	votes.add("hash-a", 2)
	votes.add("hash-a", 3)
	votes.add("hash-a", 4)
	if !QuorumReached(votes, 7, 2) {
		t.Error("Four unique voters on one hash should reach quorum for n=7, f=2")
	}
}

func TestQuorumReachedThreshold(t *testing.T) {

	cases := []struct {
		totalNodes int
		f          int
		voters     int
		expected   bool
	}{
		{4, 1, 1, false},
		{4, 1, 2, true},
		{7, 2, 3, false},
		{7, 2, 4, true},
		{10, 3, 5, false},
		{10, 3, 6, true},
	}

	for _, c := range cases {

		votes := make(VoteSet)
		for i := 1; i <= c.voters; i++ {
			votes.add("hash", ID.NodeID(i))
		}

		if got := QuorumReached(votes, c.totalNodes, c.f); got != c.expected {
			t.Errorf("QuorumReached(%d voters, n=%d, f=%d) = %v, expected %v",
				c.voters, c.totalNodes, c.f, got, c.expected)
		}

	}
}

func TestRotateLeader(t *testing.T) {

	for view := 0; view < 20; view++ {

		leader := RotateLeader(view, 4)
		if leader < 1 || leader > 4 {
			t.Fatalf("RotateLeader(%d, 4) = %s out of range [1, 4]", view, leader)
		}

		if next := RotateLeader(view+4, 4); next != leader {
			t.Errorf("RotateLeader should be periodic with period 4, view %d: %s vs %s", view, leader, next)
		}

	}
}
