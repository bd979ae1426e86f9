package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
)

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   any             `json:"error,omitempty"`
}

func newFakeKernelRPCServer(t *testing.T, recentHash string, sim SimulationResult) (*httptest.Server, *rpc.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
		switch req.Method {
		case "kernel_getRecentHash":
			resp.Result = recentHash
		case "kernel_simulateTransaction":
			resp.Result = sim
		default:
			resp.Error = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))

	client, err := rpc.DialHTTP(srv.URL)
	if err != nil {
		srv.Close()
		t.Fatalf("rpc.DialHTTP: %v", err)
	}
	return srv, client
}

func TestTransactionBuilderBuildWithoutSimulation(t *testing.T) {
	srv, client := newFakeKernelRPCServer(t, "hash-123", SimulationResult{})
	defer srv.Close()
	defer client.Close()

	b := NewTransactionBuilder(client, 2, false, false)
	b.AddInstruction(Instruction{ProgramID: "prog-1", Data: []byte("payload"), Signers: []string{"owner-1"}})
	b.WithComputeUnits(200_000).WithPriorityFee(10)

	tx, err := b.Build(context.Background(), "test batch")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tx.RecentHash != "hash-123" {
		t.Fatalf("RecentHash = %q, want hash-123", tx.RecentHash)
	}
	if tx.Metadata.Simulation != nil {
		t.Fatalf("expected no simulation result when simulation is disabled")
	}
	if tx.Metadata.InstructionDigest == "" {
		t.Fatalf("expected a non-empty instruction digest")
	}
	if len(tx.Signers) != 1 || tx.Signers[0] != "owner-1" {
		t.Fatalf("unexpected signers: %v", tx.Signers)
	}
}

func TestTransactionBuilderBuildWithSimulation(t *testing.T) {
	srv, client := newFakeKernelRPCServer(t, "hash-456", SimulationResult{UnitsConsumed: 500, Logs: []string{"ok"}})
	defer srv.Close()
	defer client.Close()

	b := NewTransactionBuilder(client, 2, true, false)
	b.AddInstruction(Instruction{ProgramID: "prog-1", Data: []byte("payload")})

	tx, err := b.Build(context.Background(), "simulated batch")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tx.Metadata.Simulation == nil {
		t.Fatalf("expected a simulation result when simulation is enabled")
	}
	if tx.Metadata.Simulation.UnitsConsumed != 500 {
		t.Fatalf("UnitsConsumed = %d, want 500", tx.Metadata.Simulation.UnitsConsumed)
	}
}

func TestTransactionBuilderOrderedInstructionsPreamble(t *testing.T) {
	b := NewTransactionBuilder(nil, 0, false, false)
	b.AddInstruction(Instruction{ProgramID: "prog-1"})
	b.WithComputeUnits(100).WithPriorityFee(5)

	ixs := b.orderedInstructions()
	if len(ixs) != 3 {
		t.Fatalf("got %d instructions, want 3 (2 preamble + 1 body)", len(ixs))
	}
	if ixs[0].ProgramID != "ComputeBudget111111111111111111111111111" {
		t.Fatalf("first instruction should be the compute-unit-limit preamble, got %q", ixs[0].ProgramID)
	}
	if ixs[2].ProgramID != "prog-1" {
		t.Fatalf("body instruction should follow the preamble")
	}
}

func TestDigestInstructionsDeterministic(t *testing.T) {
	ixs := []Instruction{{ProgramID: "a", Data: []byte("x")}}
	d1 := digestInstructions(ixs)
	d2 := digestInstructions(ixs)
	if d1 != d2 {
		t.Fatalf("digestInstructions should be deterministic for identical input")
	}

	other := []Instruction{{ProgramID: "b", Data: []byte("y")}}
	if digestInstructions(other) == d1 {
		t.Fatalf("digestInstructions should differ for different instructions")
	}
}
