package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/hierarchytrix/solver/pkg/cache"
	"github.com/hierarchytrix/solver/pkg/orchestrate"
	"github.com/hierarchytrix/solver/pkg/solver/mip"
	"github.com/hierarchytrix/solver/pkg/solver/mip/miptest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	store, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	orch := orchestrate.New(
		orchestrate.NewDirSource(dir),
		cache.NewNullCache(),
		cache.NewDefaultKeyer(),
		nil,
		log.NewWithOptions(io.Discard, log.Options{}),
		orchestrate.EngineFactory(func() mip.Model { return miptest.New() }),
	)

	return &Server{Store: store, Orchestrator: orch}
}

const sampleGraph = `{
  "nodes": [
    {"id": "root", "type": "root"},
    {"id": "a", "parent": "root", "type": "cluster"},
    {"id": "l1", "parent": "a", "type": "leaf"},
    {"id": "l2", "parent": "a", "type": "leaf"}
  ],
  "edges": []
}`

func TestCreateInstanceAndGetOrder(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest("POST", "/instances", bytes.NewBufferString(sampleGraph))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 201 {
		t.Fatalf("POST /instances status = %d, body=%s", rec.Code, rec.Body.String())
	}

	var created createInstanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if created.InstanceID == "" {
		t.Fatal("expected a non-empty instance id")
	}

	req2 := httptest.NewRequest("GET", "/instances/"+created.InstanceID+"/order?method=input", nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)

	if rec2.Code != 200 {
		t.Fatalf("GET order status = %d, body=%s", rec2.Code, rec2.Body.String())
	}

	var order orderResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &order); err != nil {
		t.Fatalf("unmarshal order: %v", err)
	}
	if len(order.LeafOrder) != 2 {
		t.Errorf("LeafOrder = %v, want 2 leaves", order.LeafOrder)
	}
}

func TestGetOrderUnknownInstance(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest("GET", "/instances/missing/order", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
