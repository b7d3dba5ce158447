package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/protocol/packet"
	"github.com/danmuck/packetctl/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog/log"
)

func newTestDaemon(t *testing.T, cfg config.DaemonConfig) *Daemon {
	t.Helper()
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	d := Appear(cfg, log.Logger)
	d.RegisterRoutes()
	return d
}

func post(d *Daemon, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	d.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func TestDecodeReturnsVersionSumAndValue(t *testing.T) {
	d := newTestDaemon(t, config.DefaultDaemonConfig())

	rr := post(d, "/decode", `{"transmission":"9C0141080250320F1802104A08"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["version_sum"] != float64(20) || body["value"] != float64(1) || body["packets"] != float64(7) {
		t.Fatalf("unexpected response body: %#v", body)
	}
	if _, ok := body["tree"]; ok {
		t.Fatalf("tree should only be returned by /decode/tree: %#v", body)
	}
	if id, _ := body["id"].(string); id == "" {
		t.Fatalf("missing transmission id: %#v", body)
	}
}

func TestDecodeTreeReturnsPackets(t *testing.T) {
	d := newTestDaemon(t, config.DefaultDaemonConfig())

	rr := post(d, "/decode/tree", `{"transmission":"38006F45291200"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Value uint64         `json:"value"`
		Tree  *packet.Packet `json:"tree"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := packet.NewOperator(1, packet.TypeLessThan, packet.NewLiteral(6, 10), packet.NewLiteral(2, 20))
	if diff := cmp.Diff(want, body.Tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if body.Value != 1 {
		t.Fatalf("expected value 1, got %d", body.Value)
	}
}

func TestDecodeErrorStatuses(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	cfg.MaxHexDigits = 32
	d := newTestDaemon(t, cfg)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"transmission":`, http.StatusBadRequest},
		{"empty", `{"transmission":""}`, http.StatusBadRequest},
		{"invalid hex", `{"transmission":"XYZ"}`, http.StatusBadRequest},
		{"too large", `{"transmission":"` + strings.Repeat("0", 33) + `"}`, http.StatusRequestEntityTooLarge},
		{"truncated", `{"transmission":"D2FE"}`, http.StatusUnprocessableEntity},
		{"arity", `{"transmission":"16004408"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rr := post(d, "/decode", tc.body)
		if rr.Code != tc.want {
			t.Fatalf("%s: expected status %d, got %d body=%s", tc.name, tc.want, rr.Code, rr.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", tc.name, err)
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Fatalf("%s: missing error message: %#v", tc.name, body)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	d := newTestDaemon(t, config.DefaultDaemonConfig())
	_ = post(d, "/decode", `{"transmission":"D2FE28"}`)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		d.HTTPRouter().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	d.HTTPRouter().ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), "packetctl_decode_transmissions_total") {
		t.Fatalf("decode metrics not exported")
	}
}
