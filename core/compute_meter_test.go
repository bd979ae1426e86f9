package core

import "testing"

func TestComputeMeterConsumeWithinBudget(t *testing.T) {
	m := NewComputeMeter(10_000)
	if err := m.Consume(ComputeCostBorrowAccount); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if m.Used() != ComputeCostBorrowAccount {
		t.Fatalf("Used() = %d, want %d", m.Used(), ComputeCostBorrowAccount)
	}
	if m.Remaining() != 10_000-ComputeCostBorrowAccount {
		t.Fatalf("Remaining() = %d, want %d", m.Remaining(), 10_000-ComputeCostBorrowAccount)
	}
}

func TestComputeMeterExhaustion(t *testing.T) {
	m := NewComputeMeter(1_000)
	if err := m.Consume(ComputeCostCPIBase); err != ErrArithmeticOverflow {
		t.Fatalf("Consume over budget = %v, want ErrArithmeticOverflow", err)
	}
	if m.Used() != 0 {
		t.Fatalf("Used() after failed Consume = %d, want 0", m.Used())
	}
}

func TestComputeMeterRemainingAtExactLimit(t *testing.T) {
	m := NewComputeMeter(ComputeCostUpdateMetadata)
	if err := m.Consume(ComputeCostUpdateMetadata); err != nil {
		t.Fatalf("Consume exact budget: %v", err)
	}
	if m.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", m.Remaining())
	}
}
