package supervisor_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/faultrun/server/store"
	"github.com/faultrun/server/supervisor"
)

// TestRunHonoursDeadline checks that Run tears the run down no later than
// shortly after its deadline: the store is marked Finished and the running
// flag is released.
func TestRunHonoursDeadline(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":1}`))
	}))
	defer upstream.Close()

	st := store.New()
	id := st.NewRun()

	var running atomic.Bool
	running.Store(true)

	client := upstream.Client()
	client.Timeout = time.Second

	start := time.Now()
	supervisor.Run(id, 1, client, upstream.URL, st, &running)
	elapsed := time.Since(start)

	if elapsed > 3*time.Second {
		t.Fatalf("Run took %v, want close to the 1s deadline", elapsed)
	}
	if running.Load() {
		t.Error("running flag still set after deadline")
	}

	run, ok := st.GetRun(id)
	if !ok {
		t.Fatal("GetRun: id not found")
	}
	if run.Status != store.Finished {
		t.Errorf("status = %v, want Finished", run.Status)
	}
}
